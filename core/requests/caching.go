// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package requests

import (
	"bytes"
	"encoding/gob"
	"hash/fnv"
	"strconv"
	"time"
)

// cachedItem represents a cached response along with its expiration time,
// original URL and the tenant it was fetched for.
type cachedItem struct {
	StatusCode int
	Body       []byte
	ExpiresAt  time.Time
	URL        string
	Tenant     string
}

// generateCacheKey binds a cached response to both the request URL and the tenant
// it was fetched for, so that switching tenants never serves another tenant's data.
func generateCacheKey(url, tenant string) string {
	hasher := fnv.New32()

	_, _ = hasher.Write([]byte(url + ":" + tenant))

	return strconv.FormatUint(uint64(hasher.Sum32()), 16)
}

// lookup returns a fresh cached response for url under tenant.
// Expired and undecodable entries are removed.
func (t *Transport) lookup(url, tenant string) (cachedItem, bool) {
	key := generateCacheKey(url, tenant)

	cached, found := t.cache.Get(key)
	if !found {
		return cachedItem{}, false
	}

	var item cachedItem
	if err := gob.NewDecoder(bytes.NewReader(cached)).Decode(&item); err != nil {
		t.logger.Warn().Err(err).Str("key", key).Msg("Failed to decode cached item; removing")
		t.cache.Remove(key)

		return cachedItem{}, false
	}

	// FNV collisions are possible; the stored URL and tenant settle it.
	if item.URL != url || item.Tenant != tenant || !time.Now().Before(item.ExpiresAt) {
		t.cache.Remove(key)

		return cachedItem{}, false
	}

	return item, true
}

// store caches a successful GET response under tenant.
func (t *Transport) store(url, tenant string, status int, body []byte) {
	var buf bytes.Buffer

	if err := gob.NewEncoder(&buf).Encode(cachedItem{
		StatusCode: status,
		Body:       body,
		ExpiresAt:  time.Now().Add(t.cacheTTL),
		URL:        url,
		Tenant:     tenant,
	}); err != nil {
		// Log the error but don't fail the request.
		t.logger.Warn().Err(err).Msg("Failed to serialize item for cache")

		return
	}

	t.cache.Add(generateCacheKey(url, tenant), tenant, buf.Bytes())
}
