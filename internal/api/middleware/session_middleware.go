package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/RoyceAzure/lab/eventro/internal/api"
	"github.com/RoyceAzure/lab/eventro/internal/constants"
)

// SessionMiddleware session 相關路由必須帶 X-Session-ID
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := strings.TrimSpace(r.Header.Get(constants.SessionIDHeader))
		if sessionID == "" {
			api.ErrorJSON(w, http.StatusBadRequest, nil, "missing "+constants.SessionIDHeader+" header")
			return
		}
		if len(sessionID) > constants.MaxSessionIDLen {
			api.ErrorJSON(w, http.StatusBadRequest, nil, "invalid "+constants.SessionIDHeader+" header")
			return
		}

		ctx := context.WithValue(r.Context(), constants.SessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetSessionID(ctx context.Context) string {
	if v, ok := ctx.Value(constants.SessionIDKey).(string); ok {
		return v
	}
	return ""
}
