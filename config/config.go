// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package config loads, validates and prints the client configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"codeberg.org/sepet/sepet/core/audit"
)

// Possible values for Log.Format.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Default locations of the YAML configuration file.
const (
	DefaultConfigFile  = "./config.yaml"
	fallbackConfigFile = "./config.yml"

	// ConfigFileEnv names the environment variable that selects a configuration file.
	ConfigFileEnv = "SEPET_CONFIGFILE"
)

// ClientConfig holds the application configuration.
type ClientConfig struct {
	Build buildInfo `yaml:"-"`

	Backend struct {
		// BaseURL is the absolute URL the backend routes are mounted under.
		BaseURL  string `env:"SEPET_BASE_URL" yaml:"baseUrl"`
		TenantID string `env:"SEPET_TENANT_ID" yaml:"tenantId"`
	} `yaml:"backend"`

	Request struct {
		// RateLimit is the number of requests per second; zero disables limiting.
		RateLimit float64 `env:"SEPET_RATE_LIMIT" yaml:"rateLimit"`
		Burst     int     `env:"SEPET_RATE_BURST" yaml:"burst"`
	} `yaml:"request"`

	Cache struct {
		Enabled  bool          `env:"SEPET_CACHE" yaml:"enabled"`
		Size     int           `env:"SEPET_CACHE_SIZE" yaml:"cacheSize"`
		TTL      time.Duration `env:"SEPET_CACHE_TTL" yaml:"cacheTTL"`
		Compress bool          `env:"SEPET_CACHE_COMPRESS" yaml:"compress"`
	} `yaml:"cache"`

	Locale struct {
		Default  string `env:"SEPET_LOCALE_DEFAULT" yaml:"default"`
		Fallback string `env:"SEPET_LOCALE_FALLBACK" yaml:"fallback"`

		// CatalogDir holds locales/*.json and po/*.po catalogs that replace the embedded ones.
		CatalogDir string `env:"SEPET_CATALOG_DIR" yaml:"catalogDir"`

		// Strict mode for missing keys.
		//
		// When enabled, keys missing from the active locale are logged,
		// deduplicated per locale+key.
		StrictMissingKeys bool `env:"SEPET_STRICT_MISSING_KEYS" yaml:"strictMissingKeys"`
	} `yaml:"locale"`

	Preferences struct {
		Backend string `env:"SEPET_PREFERENCES_BACKEND" yaml:"backend"`
		Path    string `env:"SEPET_PREFERENCES_PATH" yaml:"path"`
	} `yaml:"preferences"`

	Development struct {
		SaveResponses        bool   `env:"SEPET_SAVE_RESPONSES" yaml:"saveResponses"`
		ResponseSaveLocation string `env:"SEPET_RESPONSE_SAVE_LOCATION" yaml:"responseSaveLocation"`
	} `yaml:"development"`

	Log struct {
		Level   string   `env:"SEPET_LOG_LEVEL" yaml:"logLevel"`
		Outputs []string `env:"SEPET_LOG_OUTPUTS" yaml:"logOutputs"`
		Format  string   `env:"SEPET_LOG_FORMAT" yaml:"logFormat"`
	} `yaml:"log"`
}

// LoadConfig loads the configuration from various sources, in increasing
// precedence: defaults, the YAML file, a .env file and the environment.
//
// configFlag is the value of the -config flag, or "" if it was not given.
func (cfg *ClientConfig) LoadConfig(configFlag string) error {
	configFilePath := resolveConfigFile(configFlag)

	cfg.SetDefaults()

	cfg.Build.load()

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	if err := cfg.setupAudit(); err != nil {
		return err
	}

	cfg.print()

	return nil
}

// resolveConfigFile determines the config file path with the correct precedence:
// 1. Command-line flag (-config)
// 2. Environment variable (SEPET_CONFIGFILE)
// 3. Default path with fallback check
func resolveConfigFile(configFlag string) string {
	if configFlag != "" {
		return configFlag
	}

	if envVar := os.Getenv(ConfigFileEnv); envVar != "" {
		return envVar
	}

	if _, err := os.Stat(DefaultConfigFile); os.IsNotExist(err) {
		if _, statErr := os.Stat(fallbackConfigFile); statErr == nil {
			return fallbackConfigFile
		}
	}

	return DefaultConfigFile
}

// Dump returns the response dump settings for the request transport.
func (cfg *ClientConfig) Dump() audit.Dump {
	return audit.Dump{
		SaveResponses:     cfg.Development.SaveResponses,
		ResponseDirectory: cfg.Development.ResponseSaveLocation,
	}
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30m", "1h").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
