// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package lrucache provides a thread-safe, fixed-capacity least-recently-used (LRU) cache
of byte slices. Keys are strings and every entry belongs to a group, so that all the
entries of one group can be dropped at once. When created with compression enabled via
[NewLRUCache], values are stored zstd-compressed whenever that makes them smaller.
*/
package lrucache

import (
	"container/list"
	"errors"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var ErrInvalidSize = errors.New("must provide a positive size")

// LRUCache is a fixed-capacity, least-recently-used cache that is safe for concurrent use.
// Instances must be constructed with [NewLRUCache]; the zero value is not ready for use.
type LRUCache struct {
	size            int                      // Maximum capacity of the cache (number of entries)
	evictList       *list.List               // A doubly-linked list to manage the eviction order
	items           map[string]*list.Element // Maps string keys to their corresponding linked-list elements
	lock            sync.RWMutex             // For thread-safe operations
	compressEnabled bool                     // Whether transparent compression is enabled
	zstdEnc         *zstd.Encoder            // Reusable zstd encoder for block operations
	zstdDec         *zstd.Decoder            // Reusable zstd decoder for block operations
}

// cacheEntry holds the key/value pair stored in each linked-list element.
type cacheEntry struct {
	key        string
	group      string
	value      []byte
	compressed bool
}

// NewLRUCache creates a new cache with the specified maximum size.
//
// If compress is true, values are stored in a compressed form when this
// reduces space and are transparently decompressed by [LRUCache.Get] and [LRUCache.Peek].
//
// It returns an error if size is not a positive integer.
func NewLRUCache(size int, compress bool) (*LRUCache, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	c := &LRUCache{
		size:            size,
		evictList:       list.New(),
		items:           make(map[string]*list.Element),
		compressEnabled: compress,
	}

	if compress {
		// A nil writer/reader lets us use EncodeAll/DecodeAll without streams.
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}

		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, err
		}

		c.zstdEnc = enc
		c.zstdDec = dec
	}

	return c, nil
}

// Add adds or updates the value for key within group.
//
// If the key exists, it becomes the most recently used and moves to group.
// If the cache is at capacity, the least recently used item is evicted.
// Add reports whether an eviction occurred.
func (c *LRUCache) Add(key, group string, value []byte) bool {
	// Compress before acquiring the lock; EncodeAll is safe for concurrent use.
	stored, compressed := c.prepareValue(value)

	c.lock.Lock()
	defer c.lock.Unlock()

	if ent, ok := c.items[key]; ok {
		c.evictList.MoveToFront(ent)

		cacheEnt := ent.Value.(*cacheEntry)
		cacheEnt.group = group
		cacheEnt.value = stored
		cacheEnt.compressed = compressed

		return false
	}

	c.items[key] = c.evictList.PushFront(&cacheEntry{
		key:        key,
		group:      group,
		value:      stored,
		compressed: compressed,
	})

	evicted := c.evictList.Len() > c.size
	if evicted {
		c.removeOldest()
	}

	return evicted
}

// Get retrieves the value for key and marks it as most recently used.
//
// The second result reports whether the key was found. The returned slice is
// a copy and may be modified by the caller.
func (c *LRUCache) Get(key string) ([]byte, bool) {
	// Lock for write since we will move the element to the front.
	c.lock.Lock()

	ent, ok := c.items[key]
	if !ok {
		c.lock.Unlock()
		return nil, false
	}

	c.evictList.MoveToFront(ent)

	cacheEnt := ent.Value.(*cacheEntry)
	stored, compressed := cacheEnt.value, cacheEnt.compressed

	c.lock.Unlock()

	return c.decompressValue(stored, compressed)
}

// Peek retrieves the value for key without modifying the LRU order.
func (c *LRUCache) Peek(key string) ([]byte, bool) {
	c.lock.RLock()

	ent, ok := c.items[key]
	if !ok {
		c.lock.RUnlock()
		return nil, false
	}

	cacheEnt := ent.Value.(*cacheEntry)
	stored, compressed := cacheEnt.value, cacheEnt.compressed

	c.lock.RUnlock()

	return c.decompressValue(stored, compressed)
}

// Remove deletes the entry associated with key from the cache.
//
// Remove reports whether the key was present and removed.
func (c *LRUCache) Remove(key string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if ent, ok := c.items[key]; ok {
		c.removeElement(ent)

		return true
	}

	return false
}

// RemoveGroup deletes every entry added under group and returns how many were removed.
func (c *LRUCache) RemoveGroup(group string) int {
	c.lock.Lock()
	defer c.lock.Unlock()

	removed := 0

	for ent := c.evictList.Back(); ent != nil; {
		prev := ent.Prev()

		if ent.Value.(*cacheEntry).group == group {
			c.removeElement(ent)

			removed++
		}

		ent = prev
	}

	return removed
}

// Keys returns a slice of all keys in the cache, from the oldest to the newest.
func (c *LRUCache) Keys() []string {
	c.lock.RLock()
	defer c.lock.RUnlock()

	keys := make([]string, 0, len(c.items))

	// The back of the list is the oldest entry.
	for ent := c.evictList.Back(); ent != nil; ent = ent.Prev() {
		keys = append(keys, ent.Value.(*cacheEntry).key)
	}

	return keys
}

// Len returns the current number of items in the cache.
func (c *LRUCache) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.evictList.Len()
}

func (c *LRUCache) removeOldest() {
	if ent := c.evictList.Back(); ent != nil {
		c.removeElement(ent)
	}
}

func (c *LRUCache) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	delete(c.items, e.Value.(*cacheEntry).key)
}

// prepareValue compresses v when enabled and worthwhile, otherwise stores a copy.
func (c *LRUCache) prepareValue(v []byte) ([]byte, bool) {
	if len(v) == 0 {
		return v, false
	}

	if c.compressEnabled {
		if compressed := c.zstdEnc.EncodeAll(v, nil); len(compressed) < len(v) {
			return compressed, true
		}
	}

	copied := make([]byte, len(v))
	copy(copied, v)

	return copied, false
}

// decompressValue returns a caller-owned copy of the stored value.
// If decompression fails, the value is considered unavailable.
func (c *LRUCache) decompressValue(stored []byte, compressed bool) ([]byte, bool) {
	if !compressed {
		if stored == nil {
			return nil, true
		}

		copied := make([]byte, len(stored))
		copy(copied, stored)

		return copied, true
	}

	if c.zstdDec == nil {
		return nil, false
	}

	decoded, err := c.zstdDec.DecodeAll(stored, nil)
	if err != nil {
		return nil, false
	}

	return decoded, true
}
