// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package requests

import (
	"net/http"
	"time"

	"codeberg.org/sepet/sepet/core/audit"
)

// Request describes a single call to the backend.
type Request struct {
	Method string
	URL    string

	// Tenant is sent verbatim as the X-Tenant-ID header.
	Tenant string

	// Payload is JSON-encoded into the request body when non-nil.
	Payload any
}

// CacheOptions configures the optional GET response cache.
type CacheOptions struct {
	Enabled  bool
	Size     int
	TTL      time.Duration
	Compress bool
}

// Options are parameters for NewTransport. The zero value yields a transport
// with no cache, no rate limit and the package's default HTTP client.
type Options struct {
	// HTTPClient overrides the default client. Tests pass httptest's client here.
	HTTPClient *http.Client

	Cache CacheOptions

	// RateLimit is the sustained number of requests per second; zero disables limiting.
	RateLimit float64
	// Burst is the token bucket size used when RateLimit is positive.
	Burst int

	Dump audit.Dump
}
