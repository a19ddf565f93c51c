package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if client == nil {
		panic("redis store dependency client is nil")
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

type Option func(*redis.Options)

func WithPassword(password string) Option {
	return func(o *redis.Options) {
		o.Password = password
	}
}

func WithDB(db int) Option {
	return func(o *redis.Options) {
		o.DB = db
	}
}

func WithPoolSize(poolSize int) Option {
	return func(o *redis.Options) {
		if poolSize > 0 {
			o.PoolSize = poolSize
		}
	}
}

// NewRedisClient 建立 client 並 ping 一次確認可連線
func NewRedisClient(ctx context.Context, address string, options ...Option) (*redis.Client, error) {
	opts := &redis.Options{
		Addr: address,
	}
	for _, option := range options {
		option(opts)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect redis %s: %w", address, err)
	}
	return client, nil
}

func (r *RedisStore) setPrefixKey(key string) string {
	if r.prefix == "" {
		return key
	}
	var builder strings.Builder
	builder.Grow(len(r.prefix) + 1 + len(key))
	builder.WriteString(r.prefix)
	builder.WriteString(":")
	builder.WriteString(key)
	return builder.String()
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.client.Get(ctx, r.setPrefixKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return b, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.setPrefixKey(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = r.setPrefixKey(key)
	}
	return r.client.Del(ctx, prefixed...).Err()
}

func (r *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	exists, err := r.client.Exists(ctx, r.setPrefixKey(key)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (r *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	v, err := r.client.Incr(ctx, r.setPrefixKey(key)).Result()
	if err != nil {
		if strings.Contains(err.Error(), "not an integer") {
			return 0, ErrNotNumber
		}
		return 0, fmt.Errorf("failed to incr %s: %w", key, err)
	}
	return v, nil
}

var raiseCounterScript = redis.NewScript(`
	local current = tonumber(redis.call('GET', KEYS[1]) or '0')
	if current == nil then
		return redis.error_reply('not an integer')
	end
	local floor = tonumber(ARGV[1])
	if current < floor then
		redis.call('SET', KEYS[1], ARGV[1])
		return floor
	end
	return current
`)

func (r *RedisStore) RaiseCounter(ctx context.Context, key string, floor int64) (int64, error) {
	v, err := raiseCounterScript.Run(ctx, r.client, []string{r.setPrefixKey(key)}, floor).Int64()
	if err != nil {
		if strings.Contains(err.Error(), "not an integer") {
			return 0, ErrNotNumber
		}
		return 0, fmt.Errorf("failed to raise counter %s: %w", key, err)
	}
	return v, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
