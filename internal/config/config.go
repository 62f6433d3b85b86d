package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Theme   string      `yaml:"theme"`
	KeyMode string      `yaml:"keymode"` // "vim" or "standard"
	Tree    TreeConfig  `yaml:"tree"`
	Audit   AuditConfig `yaml:"audit"`
	Watch   WatchConfig `yaml:"watch"`
	Store   StoreConfig `yaml:"store"`
}

// TreeConfig holds the initial filter toggles and tree building options.
type TreeConfig struct {
	ShowCreated     bool   `yaml:"show_created"`
	ShowDropped     bool   `yaml:"show_dropped"`
	ShowAltered     bool   `yaml:"show_altered"`
	FilterMode      string `yaml:"filter_mode"` // "inclusive" or "strict"
	LazyExpand      bool   `yaml:"lazy_expand"`
	HideEmptyGroups bool   `yaml:"hide_empty_groups"`
}

// AuditConfig controls the JSON Lines event log.
type AuditConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path,omitempty"`
	MaxSizeMB int    `yaml:"max_size_mb"`
}

// WatchConfig controls reloading when the result file changes.
type WatchConfig struct {
	Enabled    bool `yaml:"enabled"`
	DebounceMS int  `yaml:"debounce_ms"`
}

// StoreConfig locates the saved-selection database.
type StoreConfig struct {
	Path string `yaml:"path,omitempty"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Theme:   "default",
		KeyMode: "standard",
		Tree: TreeConfig{
			ShowCreated: true,
			ShowDropped: true,
			ShowAltered: true,
			FilterMode:  "inclusive",
		},
		Audit: AuditConfig{
			MaxSizeMB: 10,
		},
		Watch: WatchConfig{
			DebounceMS: 200,
		},
	}
}

// ConfigDir returns the gotermdiff configuration directory path.
// It uses os.UserConfigDir to locate the base config directory and
// appends "gotermdiff" to it, typically resulting in ~/.config/gotermdiff/.
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config dir: %w", err)
	}
	return filepath.Join(base, "gotermdiff"), nil
}

// Load reads a Config from the YAML file at path. If the file does not exist,
// it returns DefaultConfig without error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadDefault loads configuration from the default path
// (ConfigDir()/config.yaml).
func LoadDefault() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return Load(filepath.Join(dir, "config.yaml"))
}

// Save writes the Config to the YAML file at path, creating any necessary
// parent directories.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// SaveDefault writes the Config to the default path
// (ConfigDir()/config.yaml).
func (c *Config) SaveDefault() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return c.Save(filepath.Join(dir, "config.yaml"))
}

// AuditPath returns the configured audit log path, or ConfigDir()/audit.jsonl.
func (c *Config) AuditPath() (string, error) {
	return c.resolve(c.Audit.Path, "audit.jsonl")
}

// StorePath returns the configured selection store path, or
// ConfigDir()/selections.db.
func (c *Config) StorePath() (string, error) {
	return c.resolve(c.Store.Path, "selections.db")
}

// Debounce returns the watcher debounce interval. Non-positive values fall
// back to the default.
func (c *Config) Debounce() time.Duration {
	if c.Watch.DebounceMS <= 0 {
		return time.Duration(DefaultConfig().Watch.DebounceMS) * time.Millisecond
	}
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}

func (c *Config) resolve(path, name string) (string, error) {
	if path != "" {
		return path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
