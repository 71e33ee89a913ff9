// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/sepet/sepet/core"
)

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()

	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// TestLoadConfig verifies the precedence of the configuration sources and
// the main validation failures. Environment variables make these tests sequential.
func TestLoadConfig(t *testing.T) {
	yamlFile := writeFile(t, "config.yaml", `
backend:
  baseUrl: https://sepet.example/api/
  tenantId: 1b4e28ba-2fa1-11d2-883f-0016cb512b3b
cache:
  enabled: true
  cacheSize: 10
  cacheTTL: 2m
locale:
  default: pt_br
  fallback: en
`)

	emptyFile := writeFile(t, "empty.yaml", "")
	commentsFile := writeFile(t, "comments.yaml", "# backend:\n#   baseUrl: http://example.invalid\n")

	tests := []struct {
		name    string
		file    string
		env     map[string]string
		wantErr error
		check   func(t *testing.T, cfg *ClientConfig)
	}{
		{
			name: "defaults",
			file: filepath.Join(t.TempDir(), "missing.yaml"),
			check: func(t *testing.T, cfg *ClientConfig) {
				assert.Equal(t, "http://localhost:8000/api", cfg.Backend.BaseURL)
				assert.Equal(t, core.DefaultTenantID, cfg.Backend.TenantID)
				assert.False(t, cfg.Cache.Enabled)
				assert.Equal(t, "pt-BR", cfg.Locale.Default)
				assert.Equal(t, "file", cfg.Preferences.Backend)
			},
		},
		{
			name: "yaml file",
			file: yamlFile,
			check: func(t *testing.T, cfg *ClientConfig) {
				assert.Equal(t, "https://sepet.example/api", cfg.Backend.BaseURL)
				assert.Equal(t, "1b4e28ba-2fa1-11d2-883f-0016cb512b3b", cfg.Backend.TenantID)
				assert.True(t, cfg.Cache.Enabled)
				assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
				assert.Equal(t, "pt-BR", cfg.Locale.Default)
				assert.Equal(t, "en", cfg.Locale.Fallback)
			},
		},
		{
			name: "empty yaml file keeps defaults",
			file: emptyFile,
			check: func(t *testing.T, cfg *ClientConfig) {
				assert.Equal(t, "http://localhost:8000/api", cfg.Backend.BaseURL)
				assert.Equal(t, "pt-BR", cfg.Locale.Fallback)
				assert.Equal(t, "file", cfg.Preferences.Backend)
			},
		},
		{
			name: "comment-only yaml file keeps defaults",
			file: commentsFile,
			check: func(t *testing.T, cfg *ClientConfig) {
				assert.Equal(t, "http://localhost:8000/api", cfg.Backend.BaseURL)
				assert.Equal(t, core.DefaultTenantID, cfg.Backend.TenantID)
				assert.Equal(t, "pt-BR", cfg.Locale.Default)
			},
		},
		{
			name: "environment overrides yaml",
			file: yamlFile,
			env: map[string]string{
				"SEPET_BASE_URL":    "http://10.0.0.1:9000/api",
				"SEPET_CACHE_SIZE":  "3",
				"SEPET_LOG_OUTPUTS": "/dev/stderr, /dev/stdout",
				"SEPET_RATE_LIMIT":  "2.5",
			},
			check: func(t *testing.T, cfg *ClientConfig) {
				assert.Equal(t, "http://10.0.0.1:9000/api", cfg.Backend.BaseURL)
				assert.Equal(t, 3, cfg.Cache.Size)
				assert.Equal(t, 2*time.Minute, cfg.Cache.TTL, "unset variables keep the file value")
				assert.InDelta(t, 2.5, cfg.Request.RateLimit, 0)
				assert.Len(t, cfg.Log.Outputs, 2)
			},
		},
		{
			name:    "relative base URL",
			env:     map[string]string{"SEPET_BASE_URL": "/api"},
			wantErr: errInvalidBaseURL,
		},
		{
			name:    "tenant is not a UUID",
			env:     map[string]string{"SEPET_TENANT_ID": "tenant-a"},
			wantErr: errInvalidTenantID,
		},
		{
			name:    "cache without size",
			env:     map[string]string{"SEPET_CACHE": "true", "SEPET_CACHE_SIZE": "0"},
			wantErr: errInvalidCacheSize,
		},
		{
			name:    "rate limit without burst",
			env:     map[string]string{"SEPET_RATE_LIMIT": "1", "SEPET_RATE_BURST": "0"},
			wantErr: errInvalidBurst,
		},
		{
			name:    "invalid locale",
			env:     map[string]string{"SEPET_LOCALE_DEFAULT": "???"},
			wantErr: errInvalidLocale,
		},
		{
			name:    "invalid preferences backend",
			env:     map[string]string{"SEPET_PREFERENCES_BACKEND": "redis"},
			wantErr: errInvalidPreferences,
		},
		{
			name:    "invalid log level",
			env:     map[string]string{"SEPET_LOG_LEVEL": "loud"},
			wantErr: errInvalidLogLevel,
		},
		{
			name:    "invalid log format",
			env:     map[string]string{"SEPET_LOG_FORMAT": "xml"},
			wantErr: errInvalidLogFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetEnv(t, ConfigFileEnv)

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			file := tt.file
			if file == "" {
				file = filepath.Join(t.TempDir(), "missing.yaml")
			}

			cfg := &ClientConfig{}
			err := cfg.LoadConfig(file)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)

			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	file := writeFile(t, "config.yaml", "backend: [unterminated")

	cfg := &ClientConfig{}
	require.Error(t, cfg.LoadConfig(file))
}

func TestResolveConfigFile(t *testing.T) {
	t.Setenv(ConfigFileEnv, "/etc/sepet/config.yaml")

	assert.Equal(t, "./flag.yaml", resolveConfigFile("./flag.yaml"))
	assert.Equal(t, "/etc/sepet/config.yaml", resolveConfigFile(""))

	unsetEnv(t, ConfigFileEnv)
	assert.Equal(t, DefaultConfigFile, resolveConfigFile(""))
}

func TestTryLoadDotEnv(t *testing.T) {
	unsetEnv(t, "SEPET_DOTENV_PLAIN")
	unsetEnv(t, "SEPET_DOTENV_QUOTED")
	unsetEnv(t, "SEPET_DOTENV_EXPORTED")
	t.Setenv("SEPET_DOTENV_PRESET", "kept")

	file := writeFile(t, ".env", `
# comment
SEPET_DOTENV_PLAIN=plain
SEPET_DOTENV_QUOTED="quoted value"
export SEPET_DOTENV_EXPORTED='single'
SEPET_DOTENV_PRESET=overwritten
not a pair
`)

	loaded, err := tryLoadDotEnv(file)
	require.NoError(t, err)
	assert.True(t, loaded)

	assert.Equal(t, "plain", os.Getenv("SEPET_DOTENV_PLAIN"))
	assert.Equal(t, "quoted value", os.Getenv("SEPET_DOTENV_QUOTED"))
	assert.Equal(t, "single", os.Getenv("SEPET_DOTENV_EXPORTED"))
	assert.Equal(t, "kept", os.Getenv("SEPET_DOTENV_PRESET"))

	loaded, err = tryLoadDotEnv(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
	assert.False(t, loaded)
}

func TestYAML_PrintsDurations(t *testing.T) {
	t.Parallel()

	var cfg ClientConfig
	cfg.SetDefaults()

	out, err := cfg.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(out), "cacheTTL: 30s")
	assert.Contains(t, string(out), "tenantId: "+core.DefaultTenantID)
	assert.NotContains(t, string(out), "VcsRevision")
}

func TestBuildInfo_Revision(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "unknown", (&buildInfo{}).Revision())
	assert.Equal(t, "2025-01-02-0123abcd+dirty", (&buildInfo{
		VcsRevision: "0123abcdef",
		VcsTime:     "2025-01-02T03:04:05Z",
		VcsModified: true,
	}).Revision())
}
