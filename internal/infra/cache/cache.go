package cache

import (
	"context"
	"errors"
	"time"
)

type CacheError error

var (
	ErrCacheMiss CacheError = errors.New("cache miss")
	ErrNotNumber CacheError = errors.New("value is not an integer")
)

// Store session 狀態使用的 key-value 存取介面，值一律為 JSON bytes
type Store interface {
	Ping(ctx context.Context) error
	// 不存在時回傳 ErrCacheMiss
	Get(ctx context.Context, key string) ([]byte, error)
	// ttl 為 0 代表不過期
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	// 單調遞增計數器
	Incr(ctx context.Context, key string) (int64, error)
	// 計數器小於 floor 時提高到 floor，回傳調整後的值
	RaiseCounter(ctx context.Context, key string, floor int64) (int64, error)
	Close() error
}
