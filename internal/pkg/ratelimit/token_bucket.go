package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/karlseguin/ccache/v3"
)

const maxLocalBuckets = 10000

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

/*
TokenBucket 單機限流，每個 key 各自一個 bucket，行為與 RedisTokenBucket 相同
閒置到補滿所需時間後 bucket 會過期，下次請求視為滿的 bucket
請使用 defer 呼叫 Stop()
*/
type TokenBucket struct {
	config  Config
	buckets *ccache.Cache[*bucket]
	idleTTL time.Duration
	// 建立與扣除 token 都在鎖內，同一個 key 不會建出兩個 bucket
	mu   sync.Mutex
	now  func() time.Time
	once sync.Once
}

var _ Limiter = (*TokenBucket)(nil)

func NewTokenBucket(config Config) *TokenBucket {
	config = config.normalize()
	fill := time.Duration(float64(config.Capacity) / config.RatePS * float64(time.Second))
	return &TokenBucket{
		config:  config,
		buckets: ccache.New(ccache.Configure[*bucket]().MaxSize(maxLocalBuckets)),
		idleTTL: fill + config.RefillRate,
		now:     time.Now,
	}
}

func (t *TokenBucket) Allow(ctx context.Context, key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	var b *bucket
	if item := t.buckets.Get(key); item != nil && !item.Expired() {
		b = item.Value()
		t.refill(b, now)
	} else {
		b = &bucket{tokens: float64(t.config.Capacity), lastRefill: now}
	}

	allowed := b.tokens >= 1
	if allowed {
		b.tokens--
	}
	t.buckets.Set(key, b, t.idleTTL)
	return allowed
}

// refill 以 RefillRate 為單位補充，不足一個間隔的時間留到下次
func (t *TokenBucket) refill(b *bucket, now time.Time) {
	intervals := now.Sub(b.lastRefill) / t.config.RefillRate
	if intervals <= 0 {
		return
	}
	added := float64(intervals) * t.config.RefillRate.Seconds() * t.config.RatePS
	b.tokens = math.Min(float64(t.config.Capacity), b.tokens+added)
	b.lastRefill = b.lastRefill.Add(intervals * t.config.RefillRate)
}

func (t *TokenBucket) Stop() {
	t.once.Do(func() {
		t.buckets.Stop()
	})
}
