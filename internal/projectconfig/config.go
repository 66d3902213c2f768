// Package projectconfig provides the ProjectConfig struct and loader for
// .hypercorn.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the project configuration file looked up by Load.
const ConfigFileName = ".hypercorn.yaml"

// Default values for project configuration. These are the single source of
// truth: New() references them and no other code should duplicate them.
const (
	DefaultBatchSize = 10
	DefaultSeed      = int64(-1)

	DefaultCacheDir = ".hypercorn-cache"
	DefaultFetchDir = ".hypercorn-cache/downloads"

	DefaultServerPort = 8080
)

// DatasetConfig identifies the dataset served and sampled by default.
type DatasetConfig struct {
	Path string `yaml:"path,omitempty"`
}

// SampleConfig holds default sampling parameters. Seed is a pointer so an
// explicit "seed: 0" in the file is distinguishable from the field being
// absent; zero is a legitimate reproducible seed.
type SampleConfig struct {
	BatchSize   int    `yaml:"batch_size,omitempty"`
	Seed        *int64 `yaml:"seed,omitempty"`
	Replacement *bool  `yaml:"replacement,omitempty"`
}

// CacheConfig holds summary cache settings.
type CacheConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Dir     string `yaml:"dir,omitempty"`
}

// FetchConfig holds remote download settings.
type FetchConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

// ServerConfig holds dataset API server settings.
type ServerConfig struct {
	Port int `yaml:"port,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .hypercorn.yaml.
type ProjectConfig struct {
	Dataset DatasetConfig `yaml:"dataset,omitempty"`
	Sample  SampleConfig  `yaml:"sample,omitempty"`
	Cache   CacheConfig   `yaml:"cache,omitempty"`
	Fetch   FetchConfig   `yaml:"fetch,omitempty"`
	Server  ServerConfig  `yaml:"server,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Sample: SampleConfig{
			BatchSize:   DefaultBatchSize,
			Seed:        int64Ptr(DefaultSeed),
			Replacement: boolPtr(false),
		},
		Cache: CacheConfig{
			Enabled: boolPtr(true),
			Dir:     DefaultCacheDir,
		},
		Fetch: FetchConfig{
			Dir: DefaultFetchDir,
		},
		Server: ServerConfig{
			Port: DefaultServerPort,
		},
	}
}

// Load finds .hypercorn.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading %s: %w", ConfigFileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigFileName, err)
	}

	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// findConfigFile walks up from dir looking for .hypercorn.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found. Propagates
// real I/O errors (e.g. permission denied) instead of silently swallowing
// them.
func findConfigFile(dir string) ([]byte, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, ConfigFileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig copies non-zero fields from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if src.Dataset.Path != "" {
		dst.Dataset.Path = src.Dataset.Path
	}
	if src.Sample.BatchSize != 0 {
		dst.Sample.BatchSize = src.Sample.BatchSize
	}
	if src.Sample.Seed != nil {
		dst.Sample.Seed = src.Sample.Seed
	}
	if src.Sample.Replacement != nil {
		dst.Sample.Replacement = src.Sample.Replacement
	}
	if src.Cache.Enabled != nil {
		dst.Cache.Enabled = src.Cache.Enabled
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}
	if src.Fetch.Dir != "" {
		dst.Fetch.Dir = src.Fetch.Dir
	}
	if src.Server.Port != 0 {
		dst.Server.Port = src.Server.Port
	}
}

func boolPtr(b bool) *bool { return &b }

func int64Ptr(i int64) *int64 { return &i }
