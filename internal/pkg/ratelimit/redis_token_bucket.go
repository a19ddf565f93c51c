package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "eventro-ratelimit:"

// RedisClient *redis.Client 的子集合
type RedisClient interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

var _ RedisClient = (*redis.Client)(nil)

// now 以毫秒傳入，Lua number 轉字串時才不會失去精度
var tokenBucketScript = `
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local rate = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])

	local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
	local currentTokens = tonumber(bucket[1])
	local lastRefill = tonumber(bucket[2])

	if currentTokens == nil then
		currentTokens = capacity
		lastRefill = now
	end

	local elapsedSeconds = (now - lastRefill) / 1000
	if elapsedSeconds < 0 then
		elapsedSeconds = 0
	end
	currentTokens = math.min(capacity, currentTokens + elapsedSeconds * rate)

	local allowed = 0
	if currentTokens >= 1 then
		currentTokens = currentTokens - 1
		allowed = 1
	end

	redis.call('HMSET', key, 'tokens', tostring(currentTokens), 'last_refill', tostring(now))
	redis.call('EXPIRE', key, 60)
	return allowed
`

/*
RedisTokenBucket 每個 key 各自一個 bucket，多個 instance 共用
redis 錯誤時放行，只記錄 log
*/
type RedisTokenBucket struct {
	config Config
	client RedisClient
	logger zerolog.Logger
	now    func() time.Time
}

var _ Limiter = (*RedisTokenBucket)(nil)

func NewRedisTokenBucket(client RedisClient, config Config, logger zerolog.Logger) *RedisTokenBucket {
	if client == nil {
		panic("redis token bucket dependency client is nil")
	}
	return &RedisTokenBucket{
		config: config.normalize(),
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

func (r *RedisTokenBucket) Allow(ctx context.Context, key string) bool {
	result, err := r.client.Eval(
		ctx,
		tokenBucketScript,
		[]string{keyPrefix + key},
		r.config.Capacity,
		r.config.RatePS,
		r.now().UnixMilli(),
	).Int64()
	if err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("rate limit check failed, allow request")
		return true
	}
	return result == 1
}
