package middleware

import (
	"net/http"

	"github.com/RoyceAzure/lab/eventro/internal/api"
	"github.com/RoyceAzure/lab/eventro/internal/pkg/ratelimit"
)

// NewRateLimitMiddleware 以 session id 為 key 各自限流，沒有 session 時用 remote address
func NewRateLimitMiddleware(limiter ratelimit.Limiter) func(http.Handler) http.Handler {
	if limiter == nil {
		panic("rate limit middleware dependency limiter is nil")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := GetSessionID(r.Context())
			if key == "" {
				key = r.RemoteAddr
			}
			if !limiter.Allow(r.Context(), key) {
				api.ErrorJSON(w, http.StatusTooManyRequests, nil, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
