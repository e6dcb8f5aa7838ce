package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file at the repository root.
const FileName = "reclass.yaml"

// EnvPrefix prefixes the environment overrides, e.g. RECLASS_LOG_LEVEL.
const EnvPrefix = "reclass"

// Config represents the top-level reclass.yaml configuration.
type Config struct {
	Firm       FirmConfig       `yaml:"firm"`
	Display    DisplayConfig    `yaml:"display"`
	Statistics StatisticsConfig `yaml:"statistics"`
	Log        LogConfig        `yaml:"log"`
	Git        GitConfig        `yaml:"git"`
}

// FirmConfig identifies the accounting firm owning the project.
type FirmConfig struct {
	Name string `yaml:"name" validate:"required"`
}

// DisplayConfig controls how the CLI renders amounts.
type DisplayConfig struct {
	Currency string `yaml:"currency" validate:"required,len=3"`
	Locale   string `yaml:"locale" validate:"required"`
	Decimals int    `yaml:"decimals" validate:"gte=0,lte=6"`
}

// StatisticsConfig names the template runs indicators read by default.
type StatisticsConfig struct {
	CE      string `yaml:"ce" validate:"required"`   // income statement run
	SP      string `yaml:"sp" validate:"required"`   // balance sheet run
	Workers int    `yaml:"workers" validate:"gte=1"` // parallel statement builds
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email" validate:"omitempty,email"`
}

// env holds the overrides read from the environment.
type env struct {
	LogLevel  string `envconfig:"LOG_LEVEL"`
	LogFormat string `envconfig:"LOG_FORMAT"`
	Locale    string `envconfig:"LOCALE"`
}

// Load reads a reclass.yaml file from disk, applies environment overrides
// and validates the result. Keys missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ApplyEnv overrides logging and locale settings from RECLASS_* variables.
func (c *Config) ApplyEnv() error {
	var e env
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	if e.LogLevel != "" {
		c.Log.Level = e.LogLevel
	}
	if e.LogFormat != "" {
		c.Log.Format = e.LogFormat
	}
	if e.Locale != "" {
		c.Display.Locale = e.Locale
	}
	return nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(firmName string) *Config {
	return &Config{
		Firm: FirmConfig{
			Name: firmName,
		},
		Display: DisplayConfig{
			Currency: "EUR",
			Locale:   "it",
			Decimals: 2,
		},
		Statistics: StatisticsConfig{
			CE:      "CE",
			SP:      "SP",
			Workers: 4,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Reclass",
			AuthorEmail: "reclass@localhost.localdomain",
		},
	}
}
