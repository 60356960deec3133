// Package config loads the YAML run configuration for the redshift
// pipeline.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the full run configuration. Zero values fall back to the
// defaults the published analysis uses.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Seed    int64         `yaml:"seed"`
	Tree    TreeConfig    `yaml:"tree"`
	Forest  ForestConfig  `yaml:"forest"`
	Search  SearchConfig  `yaml:"search"`
	Plots   PlotsConfig   `yaml:"plots"`
}

// CatalogConfig locates the input table.
type CatalogConfig struct {
	URL     string `yaml:"url"`     // archive download URL
	Member  string `yaml:"member"`  // table file inside the archive
	DataDir string `yaml:"dataDir"` // where the archive is extracted
	Path    string `yaml:"path"`    // direct table path; overrides fetch
}

// TreeConfig holds single-tree hyperparameters. Zero means learner default.
type TreeConfig struct {
	MaxDepth        int `yaml:"maxDepth"`
	MinSamplesSplit int `yaml:"minSamplesSplit"`
	MinSamplesLeaf  int `yaml:"minSamplesLeaf"`
}

// ForestConfig holds forest hyperparameters.
type ForestConfig struct {
	NEstimators     int `yaml:"nEstimators"`
	MaxDepth        int `yaml:"maxDepth"`
	MinSamplesSplit int `yaml:"minSamplesSplit"`
	MinSamplesLeaf  int `yaml:"minSamplesLeaf"`
}

// SearchConfig holds the randomized-search candidate grid.
type SearchConfig struct {
	Enabled         bool  `yaml:"enabled"`
	Iterations      int   `yaml:"iterations"`
	Folds           int   `yaml:"folds"`
	MaxDepth        []int `yaml:"maxDepth"`
	MinSamplesSplit []int `yaml:"minSamplesSplit"`
	MinSamplesLeaf  []int `yaml:"minSamplesLeaf"`
}

// PlotsConfig controls figure output. Empty Dir disables plotting.
type PlotsConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns the configuration of the published analysis.
func Default() *Config {
	return &Config{
		Catalog: CatalogConfig{
			URL:     "https://archive.stsci.edu/missions/hlsp/3d-hst/hlsp_3dhst_multi_multi_all_multi_v4.1.5_catalogs.tar.gz",
			Member:  "master.cat",
			DataDir: "data",
		},
		Seed: 42,
		Tree: TreeConfig{MaxDepth: 20},
		Forest: ForestConfig{
			NEstimators: 100,
			MaxDepth:    20,
		},
		Search: SearchConfig{
			Iterations:      100,
			Folds:           5,
			MaxDepth:        []int{10, 20, 30},
			MinSamplesSplit: []int{2, 5, 10},
			MinSamplesLeaf:  []int{1, 2, 4},
		},
		Plots: PlotsConfig{Dir: "plots"},
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "config: open")
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes YAML over the defaults with strict field checking.
func Parse(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "config: read")
	}
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "config: parse")
	}
	return cfg, nil
}
