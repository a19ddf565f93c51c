package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/karlseguin/ccache/v3"
	"github.com/rs/zerolog"
)

const (
	defaultLocalTTL     = 5 * time.Minute
	defaultMemcachedTTL = 15 * time.Minute
)

// MemcacheClient *memcache.Client 的子集合
type MemcacheClient interface {
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
	Delete(key string) error
}

var _ MemcacheClient = (*memcache.Client)(nil)

/*
SearchCache 兩層查詢結果快取
L1: 程序內 ccache
L2: memcached，可為 nil
讀取時先查 L1，L2 命中後回填 L1
*/
type SearchCache[T any] struct {
	local        *ccache.Cache[T]
	memcached    MemcacheClient
	localTTL     time.Duration
	memcachedTTL time.Duration
	logger       zerolog.Logger
}

type SearchCacheOption[T any] func(*SearchCache[T])

func WithMemcached[T any](client MemcacheClient) SearchCacheOption[T] {
	return func(c *SearchCache[T]) {
		c.memcached = client
	}
}

func WithTTL[T any](local, memcached time.Duration) SearchCacheOption[T] {
	return func(c *SearchCache[T]) {
		if local > 0 {
			c.localTTL = local
		}
		if memcached > 0 {
			c.memcachedTTL = memcached
		}
	}
}

func NewSearchCache[T any](maxSize int64, logger zerolog.Logger, opts ...SearchCacheOption[T]) *SearchCache[T] {
	if maxSize <= 0 {
		maxSize = 1000
	}
	c := &SearchCache[T]{
		local:        ccache.New(ccache.Configure[T]().MaxSize(maxSize)),
		localTTL:     defaultLocalTTL,
		memcachedTTL: defaultMemcachedTTL,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key 對查詢條件做 md5，memcached key 不能有空白且長度有限
func Key(prefix string, query any) string {
	b, err := json.Marshal(query)
	if err != nil {
		return ""
	}
	sum := md5.Sum(b)
	return prefix + ":" + hex.EncodeToString(sum[:])
}

func (c *SearchCache[T]) Get(key string) (T, bool) {
	var zero T
	if key == "" {
		return zero, false
	}

	if item := c.local.Get(key); item != nil && !item.Expired() {
		c.logger.Debug().Str("key", key).Msg("search cache hit (local)")
		return item.Value(), true
	}

	if c.memcached == nil {
		return zero, false
	}

	item, err := c.memcached.Get(key)
	if err != nil {
		if !errors.Is(err, memcache.ErrCacheMiss) {
			c.logger.Warn().Err(err).Str("key", key).Msg("failed to get search cache from memcached")
		}
		return zero, false
	}

	var v T
	if err := json.Unmarshal(item.Value, &v); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("invalid search cache data in memcached")
		return zero, false
	}

	c.local.Set(key, v, c.localTTL)
	c.logger.Debug().Str("key", key).Msg("search cache hit (memcached)")
	return v, true
}

func (c *SearchCache[T]) Set(key string, v T) {
	if key == "" {
		return
	}
	c.local.Set(key, v, c.localTTL)

	if c.memcached == nil {
		return
	}

	b, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to marshal search cache")
		return
	}
	err = c.memcached.Set(&memcache.Item{
		Key:        key,
		Value:      b,
		Expiration: int32(c.memcachedTTL / time.Second),
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to set search cache to memcached")
	}
}

func (c *SearchCache[T]) Delete(key string) {
	c.local.Delete(key)
	if c.memcached == nil {
		return
	}
	if err := c.memcached.Delete(key); err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to delete search cache from memcached")
	}
}

// Clear 只清 L1，L2 依 ttl 自然過期
func (c *SearchCache[T]) Clear() {
	c.local.Clear()
}

func (c *SearchCache[T]) Stop() {
	c.local.Stop()
}
