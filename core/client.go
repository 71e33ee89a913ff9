// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/sepet/sepet/core/requests"
)

const (
	// DefaultTenantID is the tenant used until SetTenantID is called.
	DefaultTenantID = "9a76a8f5-e9f9-458e-9738-4f396a2c344c"

	// TenantHeader is the header carrying the tenant scope.
	TenantHeader = requests.TenantHeader

	// DefaultBaseURL is the path prefix the backend is mounted under.
	DefaultBaseURL = "/api"
)

var (
	// ErrEmptyID is returned when an operation is called without a resource identifier.
	ErrEmptyID = errors.New("resource identifier cannot be empty")

	errInvalidJSON = errors.New("invalid JSON in response body")
)

// Client is a tenant-scoped client for the backend. It is safe for concurrent use.
type Client struct {
	baseURL   string
	transport *requests.Transport
	tenant    atomic.Pointer[string]
	logger    zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTenantID sets the initial tenant.
func WithTenantID(id string) ClientOption {
	return func(c *Client) {
		c.tenant.Store(&id)
	}
}

// NewClient returns a Client sending requests below baseURL through transport.
func NewClient(baseURL string, transport *requests.Transport, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		transport: transport,
		logger:    log.With().Str("sys", "core").Logger(),
	}

	tenant := DefaultTenantID
	c.tenant.Store(&tenant)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SetTenantID changes the tenant for every request built afterwards.
// Concurrent calls are serialized; the last write wins.
func (c *Client) SetTenantID(id string) {
	prev := c.tenant.Swap(&id)

	if prev != nil && *prev != id {
		c.logger.Debug().Str("from", *prev).Str("to", id).Msg("Tenant changed")
	}
}

// TenantID returns the current tenant.
func (c *Client) TenantID() string {
	return *c.tenant.Load()
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// endpoint joins the base URL with escaped path segments.
// A trailing "/" segment keeps the collection form ("/agendamentos/").
func (c *Client) endpoint(segments ...string) string {
	var b strings.Builder

	b.WriteString(c.baseURL)

	for _, s := range segments {
		b.WriteByte('/')

		if s != "" {
			b.WriteString(url.PathEscape(s))
		}
	}

	return b.String()
}

// fetch sends a request under tenant and returns the raw body.
func (c *Client) fetch(ctx context.Context, tenant, method, target string, payload any) ([]byte, error) {
	return c.transport.Do(ctx, requests.Request{
		Method:  method,
		URL:     target,
		Tenant:  tenant,
		Payload: payload,
	})
}

// call sends a request under tenant and decodes the JSON body into T.
func call[T any](ctx context.Context, c *Client, tenant, method, target string, payload any) (T, error) {
	var out T

	body, err := c.fetch(ctx, tenant, method, target, payload)
	if err != nil {
		return out, err
	}

	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("%w: %w", errInvalidJSON, err)
	}

	return out, nil
}

// list is call for collection endpoints. The result is never nil.
func list[T any](ctx context.Context, c *Client, tenant, target string) ([]T, error) {
	items, err := call[[]T](ctx, c, tenant, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	if items == nil {
		items = []T{}
	}

	return items, nil
}

// Health is the backend root document.
type Health struct {
	Status  string `json:"status"`
	Service string `json:"servico"`
	Address string `json:"endereco"`
}

// Online reports whether the backend declared itself online.
func (h Health) Online() bool {
	return h.Status == "online"
}

// Health fetches the backend root document.
func (c *Client) Health(ctx context.Context) (Health, error) {
	return call[Health](ctx, c, c.TenantID(), http.MethodGet, c.endpoint(""), nil)
}
