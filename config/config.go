package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/s0up4200/freshlearn/freshlearn"
)

// envBindings maps config keys to the environment variables that override them
var envBindings = map[string]string{
	"freshlearn.api_key":  "FRESHLEARN_API_KEY",
	"freshlearn.base_url": "FRESHLEARN_BASE_URL",
	"freshlearn.timeout":  "FRESHLEARN_TIMEOUT",
	"freshlearn.source":   "FRESHLEARN_SOURCE",
	"batch.concurrency":   "FRESHLEARN_BATCH_CONCURRENCY",
	"logging.level":       "FRESHLEARN_LOG_LEVEL",
	"logging.format":      "FRESHLEARN_LOG_FORMAT",
	"logging.color":       "FRESHLEARN_LOG_COLOR",
}

// Load loads the configuration from file, .env and the environment.
// Without an explicit path a missing config file is not an error, so the
// CLI can run from environment variables alone.
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set default values
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", env, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".freshlearn"))
		}

		// Check /etc
		v.AddConfigPath("/etc/freshlearn/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadDotEnv exports variables from a .env file without overriding the environment
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("error reading %s: %w", path, err)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Freshlearn defaults
	v.SetDefault("freshlearn.api_key", "")
	v.SetDefault("freshlearn.base_url", freshlearn.DefaultBaseURL)
	v.SetDefault("freshlearn.timeout", "30s")
	v.SetDefault("freshlearn.source", "api")

	// Batch defaults
	v.SetDefault("batch.concurrency", 4)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Freshlearn.APIKey == "" || cfg.Freshlearn.APIKey == "your-api-key-here" {
		return fmt.Errorf("freshlearn.api_key must be set to a valid API key")
	}

	u, err := url.Parse(cfg.Freshlearn.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid freshlearn.base_url: %s", cfg.Freshlearn.BaseURL)
	}

	if cfg.Freshlearn.Timeout < 0 {
		return fmt.Errorf("freshlearn.timeout must not be negative")
	}

	if cfg.Batch.Concurrency < 1 {
		return fmt.Errorf("batch.concurrency must be at least 1")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
