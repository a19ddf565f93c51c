package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMemcache struct {
	mu    sync.Mutex
	items map[string]*memcache.Item
	gets  int
}

func newFakeMemcache() *fakeMemcache {
	return &fakeMemcache{items: map[string]*memcache.Item{}}
}

func (f *fakeMemcache) Get(key string) (*memcache.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	item, ok := f.items[key]
	if !ok {
		return nil, memcache.ErrCacheMiss
	}
	return item, nil
}

func (f *fakeMemcache) Set(item *memcache.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[item.Key] = item
	return nil
}

func (f *fakeMemcache) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[key]; !ok {
		return memcache.ErrCacheMiss
	}
	delete(f.items, key)
	return nil
}

type cachedPage struct {
	IDs   []int64 `json:"ids"`
	Total int     `json:"total"`
}

func TestKeyStable(t *testing.T) {
	q1 := map[string]any{"search": "sound", "page": 1}
	q2 := map[string]any{"page": 1, "search": "sound"}
	assert.Equal(t, Key("listings", q1), Key("listings", q2))
	assert.NotEqual(t, Key("listings", q1), Key("listings", map[string]any{"search": "sound", "page": 2}))
	assert.Regexp(t, `^listings:[0-9a-f]{32}$`, Key("listings", q1))
}

func TestSearchCacheLocalOnly(t *testing.T) {
	c := NewSearchCache[cachedPage](10, zerolog.Nop())
	defer c.Stop()

	_, ok := c.Get("k")
	assert.False(t, ok)

	c.Set("k", cachedPage{IDs: []int64{1, 2}, Total: 2})
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []int64{1, 2}, got.IDs)

	c.Delete("k")
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestSearchCacheMemcachedBackfill(t *testing.T) {
	mc := newFakeMemcache()
	writer := NewSearchCache[cachedPage](10, zerolog.Nop(), WithMemcached[cachedPage](mc), WithTTL[cachedPage](time.Minute, time.Hour))
	defer writer.Stop()
	writer.Set("k", cachedPage{IDs: []int64{3}, Total: 1})

	require.Contains(t, mc.items, "k")
	assert.Equal(t, int32(3600), mc.items["k"].Expiration)

	// 另一個實例只有 L2 有資料
	reader := NewSearchCache[cachedPage](10, zerolog.Nop(), WithMemcached[cachedPage](mc))
	defer reader.Stop()
	got, ok := reader.Get("k")
	require.True(t, ok)
	assert.Equal(t, 1, got.Total)
	assert.Equal(t, 1, mc.gets)

	// 第二次由 L1 命中
	_, ok = reader.Get("k")
	require.True(t, ok)
	assert.Equal(t, 1, mc.gets)
}

func TestSearchCacheInvalidMemcachedData(t *testing.T) {
	mc := newFakeMemcache()
	mc.items["k"] = &memcache.Item{Key: "k", Value: []byte("not json")}
	c := NewSearchCache[cachedPage](10, zerolog.Nop(), WithMemcached[cachedPage](mc))
	defer c.Stop()

	_, ok := c.Get("k")
	assert.False(t, ok)
}
