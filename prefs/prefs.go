// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package prefs persists user preferences, such as the selected locale, between runs.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// LocaleKey is the preference holding the user's locale.
const LocaleKey = "sepet-locale"

// Supported backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

var (
	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown preference backend")

	errEmptyPath = errors.New("preference store path is required")
	errEmptyKey  = errors.New("preference key is required")
)

// Store is a string key/value store.
type Store interface {
	// Get returns the value of key and whether it was set.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Close releases the resources held by the store.
	Close() error
}

// Open returns the store for backend at path.
func Open(backend, path string) (Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errEmptyPath
	}

	switch backend {
	case BackendFile, "":
		s, err := OpenFile(path)
		if err != nil {
			return nil, err
		}

		return s, nil
	case BackendSQLite:
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}

		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// Backends returns the supported backend names.
func Backends() []string {
	return []string{BackendFile, BackendSQLite}
}
