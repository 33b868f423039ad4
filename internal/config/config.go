// Package config loads the CLI configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

const (
	defaultMinimumFreeGB = 1
	defaultLogLevel      = "info"
	defaultSplitSize     = 8192
)

// Config carries the settings shared by all commands.
type Config struct {
	VaultPath     string `yaml:"vaultPath"`
	MinimumFreeGB int    `yaml:"minimumFreeGB"`
	LogLevel      string `yaml:"logLevel"`
	SplitSize     int    `yaml:"splitSize"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	config := Config{}
	config.fillDefaults()
	return config
}

// DefaultPath returns ~/.pngstash/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolving home directory: %w", err)
	}
	return filepath.Join(home, ".pngstash", "config.yaml"), nil
}

// Load reads the configuration file at path. A missing file is not an
// error; it yields the defaults. Zero fields are filled with defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	config.fillDefaults()
	if _, err := logrus.ParseLevel(config.LogLevel); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}

	return config, nil
}

func (c *Config) fillDefaults() {
	if c.VaultPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.VaultPath = filepath.Join(home, ".pngstash", "vault")
		}
	}
	if c.MinimumFreeGB == 0 {
		c.MinimumFreeGB = defaultMinimumFreeGB
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.SplitSize == 0 {
		c.SplitSize = defaultSplitSize
	}
}

// Level returns the configured logrus level, falling back to info when
// the string does not parse.
func (c Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
