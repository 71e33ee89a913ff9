// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package lrucache

import (
	"bytes"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLRUCache(t *testing.T) {
	t.Parallel()

	t.Run("ValidSize_NoCompression", func(t *testing.T) {
		t.Parallel()

		cache, err := NewLRUCache(3, false)
		require.NoError(t, err)
		assert.Equal(t, 0, cache.Len())
	})

	t.Run("ValidSize_WithCompression", func(t *testing.T) {
		t.Parallel()

		cache, err := NewLRUCache(3, true)
		require.NoError(t, err)
		assert.Equal(t, 0, cache.Len())
	})

	t.Run("InvalidSize", func(t *testing.T) {
		t.Parallel()

		cache, err := NewLRUCache(0, false)
		require.ErrorIs(t, err, ErrInvalidSize)
		assert.Nil(t, cache)
	})
}

func TestLRUCache_AddAndGet(t *testing.T) {
	t.Parallel()

	cache, err := NewLRUCache(2, false)
	require.NoError(t, err)

	assert.False(t, cache.Add("a", "t1", []byte("1")))
	assert.False(t, cache.Add("b", "t1", []byte("2")))

	// Touch "a" so that "b" becomes the eviction candidate.
	v, ok := cache.Get("a")
	require.True(t, ok)
	assert.Equal(t, []byte("1"), v)

	assert.True(t, cache.Add("c", "t2", []byte("3")))

	_, ok = cache.Peek("b")
	assert.False(t, ok, "expected b to be evicted")
	assert.Equal(t, []string{"a", "c"}, cache.Keys())
}

func TestLRUCache_ReturnsCopies(t *testing.T) {
	t.Parallel()

	cache, err := NewLRUCache(1, false)
	require.NoError(t, err)

	original := []byte("tenant")
	cache.Add("k", "g", original)
	original[0] = 'X'

	v, _ := cache.Get("k")
	assert.Equal(t, "tenant", string(v))

	v[0] = 'Y'
	again, _ := cache.Peek("k")
	assert.Equal(t, "tenant", string(again))
}

func TestLRUCache_Compression(t *testing.T) {
	t.Parallel()

	cache, err := NewLRUCache(4, true)
	require.NoError(t, err)

	payload := bytes.Repeat([]byte(`{"nome_animal":"Rex","especie":"Canina"},`), 200)
	cache.Add("list", "tenant", payload)

	v, ok := cache.Get("list")
	require.True(t, ok)
	assert.Equal(t, payload, v)

	cache.lock.RLock()
	stored := cache.items["list"].Value.(*cacheEntry)
	cache.lock.RUnlock()
	assert.True(t, stored.compressed)
	assert.Less(t, len(stored.value), len(payload))
}

func TestLRUCache_RemoveGroup(t *testing.T) {
	t.Parallel()

	cache, err := NewLRUCache(10, false)
	require.NoError(t, err)

	cache.Add("a", "tenant-1", []byte("a"))
	cache.Add("b", "tenant-2", []byte("b"))
	cache.Add("c", "tenant-1", []byte("c"))

	assert.Equal(t, 2, cache.RemoveGroup("tenant-1"))
	assert.Equal(t, []string{"b"}, cache.Keys())
	assert.Equal(t, 0, cache.RemoveGroup("tenant-1"))

	assert.True(t, cache.Remove("b"))
	assert.False(t, cache.Remove("b"))
}

func TestLRUCache_Concurrent(t *testing.T) {
	t.Parallel()

	cache, err := NewLRUCache(16, true)
	require.NoError(t, err)

	var wg sync.WaitGroup

	for i := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := range 100 {
				key := strconv.Itoa(i*100 + j)
				cache.Add(key, strconv.Itoa(i), []byte(key))
				cache.Get(key)
			}
		}()
	}

	wg.Wait()

	assert.LessOrEqual(t, cache.Len(), 16)
}
