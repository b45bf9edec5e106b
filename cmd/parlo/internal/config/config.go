// Package config loads the parlo CLI configuration.
//
// Configuration is a single YAML file under os.UserConfigDir():
//
//	~/Library/Application Support/parlo/config.yaml   (macOS)
//	~/.config/parlo/config.yaml                       (Linux)
//	%AppData%/parlo/config.yaml                       (Windows)
//
// Every field has a working default, so a missing file is not an error.
// Command-line flags override whatever the file says.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

const (
	// appDir is the directory name under os.UserConfigDir() and
	// os.UserCacheDir().
	appDir = "parlo"

	// fileName is the configuration file inside appDir.
	fileName = "config.yaml"
)

// Library says where reference clips live. A local root and an S3 bucket
// may both be set; the local root wins when it holds the clip.
type Library struct {
	// Root is a local directory of clips, resolved relative to slash-
	// separated clip names.
	Root string `yaml:"root"`

	// S3 points at a bucket of clips. Credentials come from the default
	// AWS provider chain (environment, shared config, instance role).
	S3 S3 `yaml:"s3"`
}

// S3 identifies a bucket and key prefix holding clips.
type S3 struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
	Region string `yaml:"region"`
}

// Analysis carries the default reduction parameters; flags override them
// per invocation.
type Analysis struct {
	Points          int     `yaml:"points"`
	Strategy        string  `yaml:"strategy"`
	EnhanceContrast bool    `yaml:"enhance_contrast"`
	Pitch           bool    `yaml:"pitch"`
	FrameSize       int     `yaml:"frame_size"`
	HopSize         int     `yaml:"hop_size"`
	VoicedThreshold float64 `yaml:"voiced_threshold"`
}

// Config is the root CLI configuration.
type Config struct {
	// Path is the file this configuration was loaded from (or would be
	// saved to). Not serialized.
	Path string `yaml:"-"`

	// Listen is the address the serve command binds.
	Listen string `yaml:"listen"`

	// DataDir holds the badger database (saved regions, cached series).
	// Empty means a per-user cache directory chosen at runtime.
	DataDir string `yaml:"data_dir"`

	// CacheClips caps how many decoded clips stay in memory.
	CacheClips int `yaml:"cache_clips"`

	Library  Library  `yaml:"library"`
	Analysis Analysis `yaml:"analysis"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Listen:     ":8080",
		CacheClips: 10,
	}
}

// DefaultPath returns the default configuration file location.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// Load reads the configuration from the default location.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration from a specific file. A missing file
// yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	cfg.Path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration back to its Path.
func (c *Config) Save() error {
	if c.Path == "" {
		return fmt.Errorf("config has no path")
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(c.Path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", c.Path, err)
	}
	return nil
}

// StateDir returns the directory for the badger database. When DataDir is
// unset it falls back to a per-user cache location.
func (c *Config) StateDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine cache directory: %w", err)
	}
	return filepath.Join(base, appDir, "state"), nil
}
