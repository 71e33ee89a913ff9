// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"codeberg.org/sepet/sepet/i18n"
	"codeberg.org/sepet/sepet/prefs"
)

// validation errors.
var (
	errInvalidBaseURL          = errors.New("backend.baseUrl must be an absolute http or https URL")
	errInvalidTenantID         = errors.New("backend.tenantId must be a UUID")
	errInvalidRateLimit        = errors.New("request.rateLimit cannot be negative")
	errInvalidBurst            = errors.New("request.burst must be positive when a rate limit is set")
	errInvalidCacheSize        = errors.New("cache.cacheSize must be positive when the cache is enabled")
	errInvalidCacheTTL         = errors.New("cache.cacheTTL must be positive when the cache is enabled")
	errInvalidLocale           = errors.New("invalid locale")
	errInvalidPreferences      = errors.New("invalid preferences backend")
	errEmptyPreferencesPath    = errors.New("preferences.path cannot be empty")
	errInvalidLogLevel         = errors.New("invalid log level")
	errInvalidLogFormat        = errors.New("invalid log format")
	errEmptyResponseSaveTarget = errors.New("development.responseSaveLocation cannot be empty when saving responses")
)

// validateAndSet validates the client configuration and normalises some fields.
func (cfg *ClientConfig) validateAndSet() error {
	base, err := url.Parse(cfg.Backend.BaseURL)
	if err != nil || !base.IsAbs() || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return fmt.Errorf("%w: %q", errInvalidBaseURL, cfg.Backend.BaseURL)
	}

	cfg.Backend.BaseURL = strings.TrimRight(base.String(), "/")

	if err := ValidateTenantID(cfg.Backend.TenantID); err != nil {
		return err
	}

	if cfg.Request.RateLimit < 0 {
		return errInvalidRateLimit
	}

	if cfg.Request.RateLimit > 0 && cfg.Request.Burst <= 0 {
		return errInvalidBurst
	}

	if cfg.Cache.Enabled {
		if cfg.Cache.Size <= 0 {
			return errInvalidCacheSize
		}

		if cfg.Cache.TTL <= 0 {
			return errInvalidCacheTTL
		}
	}

	for _, field := range []*string{&cfg.Locale.Default, &cfg.Locale.Fallback} {
		canonical, err := i18n.Canonicalize(*field)
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidLocale, err)
		}

		*field = canonical
	}

	if !slices.Contains(prefs.Backends(), cfg.Preferences.Backend) {
		return fmt.Errorf("%w: %q (want one of %s)", errInvalidPreferences,
			cfg.Preferences.Backend, strings.Join(prefs.Backends(), ", "))
	}

	if strings.TrimSpace(cfg.Preferences.Path) == "" {
		return errEmptyPreferencesPath
	}

	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil || cfg.Log.Level == "" {
		return fmt.Errorf("%w: %q", errInvalidLogLevel, cfg.Log.Level)
	}

	if cfg.Log.Format != FormatConsole && cfg.Log.Format != FormatJSON {
		return fmt.Errorf("%w: %q", errInvalidLogFormat, cfg.Log.Format)
	}

	outputs := make([]string, 0, len(cfg.Log.Outputs))
	for _, output := range cfg.Log.Outputs {
		if trimmed := strings.TrimSpace(output); trimmed != "" {
			outputs = append(outputs, trimmed)
		}
	}

	cfg.Log.Outputs = outputs

	if cfg.Development.SaveResponses && cfg.Development.ResponseSaveLocation == "" {
		return errEmptyResponseSaveTarget
	}

	return nil
}

// ValidateTenantID reports whether id is a UUID.
func ValidateTenantID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", errInvalidTenantID, id)
	}

	return nil
}
