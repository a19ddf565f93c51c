package session_repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/eventro/internal/infra/cache"
)

type SessionRepoError error

var (
	ErrStateNotFound SessionRepoError = errors.New("session state not found")
	ErrCorruptState  SessionRepoError = errors.New("session state is corrupt")
	ErrEmptySession  SessionRepoError = errors.New("session id is empty")
)

func generateCartKey(sessionID string) string {
	return fmt.Sprintf("eventro-cart:%s", sessionID)
}

func generateCheckoutCartKey(sessionID string) string {
	return fmt.Sprintf("eventro-checkout-cart:%s", sessionID)
}

func generateLastOrderKey(sessionID string) string {
	return fmt.Sprintf("eventro-last-order:%s", sessionID)
}

func generateThreadKey(sessionID, threadID string) string {
	return fmt.Sprintf("eventro-message-thread-%s:%s", threadID, sessionID)
}

const orderSequenceKey = "eventro-order-seq"

// 回傳 ErrStateNotFound 或包裝過的 ErrCorruptState
func loadJSON[T any](ctx context.Context, store cache.Store, key string) (T, error) {
	var v T
	b, err := store.Get(ctx, key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return v, ErrStateNotFound
	}
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return v, fmt.Errorf("%w: key %s: %v", ErrCorruptState, key, err)
	}
	return v, nil
}

func saveJSON(ctx context.Context, store cache.Store, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return store.Set(ctx, key, b, ttl)
}

func checkSession(sessionID string) error {
	if sessionID == "" {
		return ErrEmptySession
	}
	return nil
}
