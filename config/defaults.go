// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"os"
	"path/filepath"
	"time"

	"codeberg.org/sepet/sepet/core"
	"codeberg.org/sepet/sepet/i18n"
	"codeberg.org/sepet/sepet/prefs"
)

const (
	// Default cache TTL in seconds.
	defaultCacheTTLSeconds = 30
)

// SetDefaults populates the configuration with default values.
func (cfg *ClientConfig) SetDefaults() {
	cfg.Backend.BaseURL = "http://localhost:8000" + core.DefaultBaseURL
	cfg.Backend.TenantID = core.DefaultTenantID

	cfg.Request.RateLimit = 0
	cfg.Request.Burst = 1

	cfg.Cache.Enabled = false
	cfg.Cache.Size = 100
	cfg.Cache.TTL = defaultCacheTTLSeconds * time.Second
	cfg.Cache.Compress = false

	cfg.Locale.Default = i18n.DefaultLocale
	cfg.Locale.Fallback = i18n.DefaultLocale
	cfg.Locale.CatalogDir = ""
	cfg.Locale.StrictMissingKeys = false

	cfg.Preferences.Backend = prefs.BackendFile
	cfg.Preferences.Path = defaultPreferencesPath()

	cfg.Development.SaveResponses = false
	cfg.Development.ResponseSaveLocation = "/tmp/sepet/responses"

	cfg.Log.Level = "warn"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = FormatConsole
}

// defaultPreferencesPath returns the preference file under the user's
// configuration directory, or a file in the working directory if there is none.
func defaultPreferencesPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "./sepet-preferences.yaml"
	}

	return filepath.Join(dir, "sepet", "preferences.yaml")
}
