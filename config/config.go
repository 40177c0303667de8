package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Token        string
	Concurrency  int
	MaxFileSize  int64
	OutputDir    string
	ExtraIgnores []string
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Concurrency: 5,
		MaxFileSize: 1 << 20,
		OutputDir:   ".",
	}
}

// Load reads the configuration from an optional config file and the
// environment. The token is taken from REPO_EXPORT_TOKEN or GITHUB_TOKEN;
// every other key can be overridden with a REPO_EXPORT_ prefix.
func Load() (Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("concurrency", defaults.Concurrency)
	v.SetDefault("max_file_size", defaults.MaxFileSize)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("extra_ignores", []string{})

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir())

	v.SetEnvPrefix("REPO_EXPORT")
	v.AutomaticEnv()
	if err := v.BindEnv("token", "REPO_EXPORT_TOKEN", "GITHUB_TOKEN"); err != nil {
		return Config{}, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := Config{
		Token:        v.GetString("token"),
		Concurrency:  v.GetInt("concurrency"),
		MaxFileSize:  v.GetInt64("max_file_size"),
		OutputDir:    v.GetString("output_dir"),
		ExtraIgnores: v.GetStringSlice("extra_ignores"),
	}

	if cfg.Concurrency < 1 {
		cfg.Concurrency = defaults.Concurrency
	}
	if cfg.MaxFileSize < 1 {
		cfg.MaxFileSize = defaults.MaxFileSize
	}

	return cfg, nil
}

// configDir returns the directory searched for the config file
func configDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, "repo-export")
}
