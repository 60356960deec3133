// Package fetch downloads the compressed catalog archive and extracts the
// one member file the pipeline reads. This is a convenience collaborator:
// the pipeline core only requires a readable table path, however obtained.
package fetch

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/mholt/archiver/v3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Archive performs a one-shot HTTP GET of a tar.gz archive and extracts the
// named member into destDir, returning the extracted file's path. No
// retries: a failed fetch surfaces immediately.
func Archive(ctx context.Context, url, member, destDir string, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	out := filepath.Join(destDir, member)
	if _, err := os.Stat(out); err == nil {
		logger.Info("catalog already extracted", zap.String("path", out))
		return out, nil
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", errors.Wrap(err, "fetch: create data dir")
	}

	tmp, err := download(ctx, url, destDir, logger)
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp)

	logger.Info("extracting member", zap.String("member", member))
	if err := archiver.NewTarGz().Extract(tmp, member, destDir); err != nil {
		return "", errors.Wrapf(err, "fetch: extract %q", member)
	}
	if _, err := os.Stat(out); err != nil {
		return "", errors.Wrapf(err, "fetch: archive did not contain %q", member)
	}
	return out, nil
}

func download(ctx context.Context, url, destDir string, logger *zap.Logger) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrap(err, "fetch: request")
	}
	logger.Info("downloading archive", zap.String("url", url))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "fetch: download")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("fetch: unexpected status %s for %s", resp.Status, url)
	}

	f, err := os.CreateTemp(destDir, "catalog-*.tar.gz")
	if err != nil {
		return "", errors.Wrap(err, "fetch: temp file")
	}
	defer f.Close()

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		os.Remove(f.Name())
		return "", errors.Wrap(err, "fetch: write archive")
	}
	logger.Info("archive downloaded", zap.Int64("bytes", n))
	return f.Name(), nil
}
