package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user defaults loaded from the config file. Zero values mean
// "not set"; command-line flags always win over file values.
type Config struct {
	// Engine is the default layout engine (hierarchical or force).
	Engine string `toml:"engine"`

	// Formats is the default output format list for render.
	Formats []string `toml:"formats"`

	// Dark enables the dark render theme by default.
	Dark bool `toml:"dark"`

	// LabelLength overrides the node label truncation length.
	LabelLength int `toml:"label_length"`

	// CacheDir overrides the XDG cache directory.
	CacheDir string `toml:"cache_dir"`

	// Serve holds defaults for the serve command.
	Serve ServeConfig `toml:"serve"`
}

// ServeConfig holds serve-mode backend defaults.
type ServeConfig struct {
	Addr     string `toml:"addr"`
	RedisURL string `toml:"redis_url"`
	MongoURI string `toml:"mongo_uri"`
}

// configPath returns the config file location using the XDG standard
// (~/.config/jsonatlas/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads the config file if it exists. A missing file is not an
// error; it simply yields the zero Config.
func loadConfig() (Config, error) {
	path, err := configPath()
	if err != nil {
		return Config{}, nil
	}
	return loadConfigFile(path)
}

// loadConfigFile reads and decodes a specific TOML config file.
func loadConfigFile(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
