package fetch

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tableBody = "# id z_spec\n1 1.2\n2 0.8\n"

func buildArchive(t *testing.T, member string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name: member,
		Mode: 0o644,
		Size: int64(len(tableBody)),
	}))
	_, err := tw.Write([]byte(tableBody))
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestArchiveDownloadsAndExtracts(t *testing.T) {
	archive := buildArchive(t, "master.cat")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	}))
	defer srv.Close()

	dir := t.TempDir()
	path, err := Archive(context.Background(), srv.URL, "master.cat", dir, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "master.cat"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, tableBody, string(data))

	// No leftover archive temp file.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestArchiveSkipsWhenAlreadyExtracted(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "master.cat")
	require.NoError(t, os.WriteFile(out, []byte(tableBody), 0o644))

	// URL is never hit when the member already exists.
	path, err := Archive(context.Background(), "http://127.0.0.1:0/unreachable", "master.cat", dir, nil)
	require.NoError(t, err)
	assert.Equal(t, out, path)
}

func TestArchiveBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := Archive(context.Background(), srv.URL, "master.cat", t.TempDir(), nil)
	assert.Error(t, err)
}

func TestArchiveMissingMember(t *testing.T) {
	archive := buildArchive(t, "other.cat")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	}))
	defer srv.Close()

	_, err := Archive(context.Background(), srv.URL, "master.cat", t.TempDir(), nil)
	assert.Error(t, err)
}
