package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Freshlearn FreshlearnConfig `mapstructure:"freshlearn"`
	Batch      BatchConfig      `mapstructure:"batch"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// FreshlearnConfig holds Freshlearn API connection details
type FreshlearnConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Source  string        `mapstructure:"source"`
}

// BatchConfig controls bulk enrollment from files
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
