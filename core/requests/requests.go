// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package requests

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"codeberg.org/sepet/sepet/core/audit"
	"codeberg.org/sepet/sepet/core/idgen"
	"codeberg.org/sepet/sepet/core/requests/lrucache"
)

const (
	// ContentType is sent on every request, including those without a body.
	ContentType = "application/json"

	// TenantHeader carries the tenant scope of a request.
	TenantHeader = "X-Tenant-ID"
)

var (
	// ErrAPIResponse is the cause of every APIError built from a non-2xx response.
	ErrAPIResponse = errors.New("API response indicated error")

	errInvalidCacheSize = errors.New("cache size must be positive when the cache is enabled")
	errInvalidBurst     = errors.New("burst must be positive when a rate limit is set")
)

// APIError represents a non-2xx response from the backend.
type APIError struct {
	// StatusCode is the HTTP status code from the response.
	// Always outside the 2xx range.
	StatusCode int

	// Message is the backend's "detail" text, or the HTTP status text when absent.
	Message string

	// Body is the raw response body.
	Body []byte

	// Err is the underlying error cause, always ErrAPIResponse.
	Err error
}

// Error returns a formatted error message including the status code and API message if available.
func (e *APIError) Error() string {
	var b strings.Builder

	b.WriteString(e.Err.Error())

	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}

	fmt.Fprintf(&b, " (status code: %d)", e.StatusCode)

	return b.String()
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Transport sends requests to the backend. It is safe for concurrent use.
//
// Transport does not retry, back off or impose timeouts: every failure is
// returned to the caller as-is.
type Transport struct {
	client   *http.Client
	cache    *lrucache.LRUCache
	cacheTTL time.Duration
	limiter  *rate.Limiter
	dump     audit.Dump
	logger   zerolog.Logger
}

// NewTransport builds a Transport from opts.
func NewTransport(opts Options) (*Transport, error) {
	t := &Transport{
		client: opts.HTTPClient,
		dump:   opts.Dump,
		logger: log.With().Str("sys", "requests").Logger(),
	}

	if t.client == nil {
		t.client = newHTTPClient()
	}

	if opts.Cache.Enabled {
		if opts.Cache.Size <= 0 {
			return nil, errInvalidCacheSize
		}

		cache, err := lrucache.NewLRUCache(opts.Cache.Size, opts.Cache.Compress)
		if err != nil {
			return nil, fmt.Errorf("failed to create response cache: %w", err)
		}

		t.cache = cache
		t.cacheTTL = opts.Cache.TTL

		t.logger.Info().
			Int("size", opts.Cache.Size).
			Dur("ttl", opts.Cache.TTL).
			Bool("compress", opts.Cache.Compress).
			Msg("Initialized API response cache")
	}

	if opts.RateLimit > 0 {
		if opts.Burst <= 0 {
			return nil, errInvalidBurst
		}

		t.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), opts.Burst)
	}

	return t, nil
}

// Do sends req and returns the response body of a 2xx response.
//
// Non-2xx responses yield an *APIError. Transport failures are wrapped with %w
// so that errors.Is still sees context.Canceled, net errors and the like.
func (t *Transport) Do(ctx context.Context, req Request) (_ []byte, err error) {
	cacheable := req.Method == http.MethodGet && t.cache != nil

	span := audit.Span{
		Destination: audit.ToBackend,
		RequestID:   idgen.Make(),
		Method:      req.Method,
		URL:         req.URL,
		Tenant:      req.Tenant,
	}

	ctx = span.Begin(ctx)

	defer func() {
		span.Error = err
		span.End()
		span.Log(t.dump)
	}()

	if cacheable {
		if item, ok := t.lookup(req.URL, req.Tenant); ok {
			span.Cached = true
			span.StatusCode = item.StatusCode
			span.Body = item.Body

			return item.Body, nil
		}
	}

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	httpReq, err := newRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	status, body, err := t.send(httpReq)
	if err != nil {
		return nil, err
	}

	span.StatusCode = status
	span.Body = body

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, newAPIError(status, body)
	}

	switch {
	case cacheable:
		t.store(req.URL, req.Tenant, status, body)
	case req.Method != http.MethodGet && t.cache != nil:
		// Writes may change what any list or detail endpoint returns for this tenant.
		if n := t.cache.RemoveGroup(req.Tenant); n > 0 {
			t.logger.Debug().Str("tenant", req.Tenant).Int("count", n).Msg("Invalidated cached responses")
		}
	}

	return body, nil
}

// InvalidateTenant drops every cached response fetched under tenant.
// Safe to call even if caching is disabled.
func (t *Transport) InvalidateTenant(tenant string) int {
	if t.cache == nil {
		return 0
	}

	return t.cache.RemoveGroup(tenant)
}

// newRequest constructs an *http.Request from req.
func newRequest(ctx context.Context, req Request) (*http.Request, error) {
	var reqBody io.Reader

	if req.Payload != nil {
		encoded, err := json.Marshal(req.Payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request payload: %w", err)
		}

		reqBody = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", ContentType)
	httpReq.Header.Set(TenantHeader, req.Tenant)

	return httpReq, nil
}

// send executes the HTTP request and reads the whole body.
func (t *Transport) send(req *http.Request) (int, []byte, error) {
	resp, err := t.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, body, nil
}

// newAPIError extracts a message from a FastAPI-style error body.
//
// "detail" is either a string or, for validation failures, a list of objects
// carrying a "msg" field.
func newAPIError(status int, body []byte) *APIError {
	var message string

	if gjson.ValidBytes(body) {
		detail := gjson.GetBytes(body, "detail")

		switch {
		case detail.IsArray():
			msgs := make([]string, 0, len(detail.Array()))
			for _, m := range detail.Get("#.msg").Array() {
				msgs = append(msgs, m.String())
			}

			message = strings.Join(msgs, "; ")
		case detail.Exists():
			message = detail.String()
		default:
			message = gjson.GetBytes(body, "message").String()
		}
	}

	// Fall back to the HTTP status text if no JSON message is found.
	if message == "" {
		message = http.StatusText(status)
	}

	// As a final fallback for unknown status codes, use a generic error message.
	if message == "" {
		message = "An unknown API error occurred"
	}

	return &APIError{
		StatusCode: status,
		Message:    message,
		Body:       body,
		Err:        ErrAPIResponse,
	}
}
