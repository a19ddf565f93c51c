package ratelimit

import (
	"context"
	"time"
)

// Limiter key 為限流對象，例如 session id
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

type Config struct {
	Capacity   int
	RatePS     float64       // tokens/秒
	RefillRate time.Duration // 補充時間間隔
}

func DefaultConfig() Config {
	return Config{
		Capacity:   5,
		RatePS:     1,
		RefillRate: time.Second,
	}
}

func (c Config) normalize() Config {
	d := DefaultConfig()
	if c.Capacity <= 0 {
		c.Capacity = d.Capacity
	}
	if c.RatePS <= 0 {
		c.RatePS = d.RatePS
	}
	if c.RefillRate <= 0 {
		c.RefillRate = d.RefillRate
	}
	return c
}
