// Package config loads the .bonsai/config.yaml project file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DirName is the per-project directory holding config and view state.
const DirName = ".bonsai"

// FileName is the config file inside DirName.
const FileName = "config.yaml"

// Config is the project configuration (.bonsai/config.yaml)
type Config struct {
	// RootID names the root node (default: root)
	RootID string `yaml:"root_id,omitempty" json:"root_id,omitempty"`

	// FolderOnTop orders folders before files among siblings
	FolderOnTop bool `yaml:"folder_on_top,omitempty" json:"folder_on_top,omitempty"`

	// UseSelection enables single, range and toggle selection (default: true)
	UseSelection *bool `yaml:"use_selection,omitempty" json:"use_selection,omitempty"`

	// UseExternalDrop treats pasted text as a drop from outside the tree
	UseExternalDrop bool `yaml:"use_external_drop,omitempty" json:"use_external_drop,omitempty"`

	// DepthStep is the indent in columns per depth level (default: 2)
	DepthStep int `yaml:"depth_step,omitempty" json:"depth_step,omitempty"`

	// StateDir holds tree-state.json, relative to the project dir (default: .bonsai)
	StateDir string `yaml:"state_dir,omitempty" json:"state_dir,omitempty"`

	Log LogConfig `yaml:"log,omitempty" json:"log,omitempty"`
}

// LogConfig controls the debug log file.
type LogConfig struct {
	Enabled bool   `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Dir     string `yaml:"dir,omitempty" json:"dir,omitempty"`
	Level   string `yaml:"level,omitempty" json:"level,omitempty"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	c := Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.RootID == "" {
		c.RootID = "root"
	}
	if c.UseSelection == nil {
		on := true
		c.UseSelection = &on
	}
	if c.DepthStep == 0 {
		c.DepthStep = 2
	}
	if c.StateDir == "" {
		c.StateDir = DirName
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// SelectionEnabled reports the effective use_selection value.
func (c *Config) SelectionEnabled() bool {
	return c.UseSelection == nil || *c.UseSelection
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.RootID) == "" {
		errs = append(errs, errors.New("root_id must not be empty"))
	}
	if c.DepthStep < 1 || c.DepthStep > 8 {
		errs = append(errs, fmt.Errorf("depth_step %d out of range 1..8", c.DepthStep))
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Log.Level))
	}
	return errors.Join(errs...)
}

// Load reads a config file, applies defaults and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadOrDefault loads path, or the discovered config when path is empty,
// falling back to Default when nothing is found. It also returns the
// project dir the config belongs to ("" when defaulted).
func LoadOrDefault(path, startDir string) (*Config, string, error) {
	if path == "" {
		found, ok := Find(startDir)
		if !ok {
			cfg := Default()
			return &cfg, "", nil
		}
		path = found
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, ProjectDir(path), nil
}

// Save writes cfg as YAML.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
