package session_repo

import (
	"context"
	"time"

	"github.com/RoyceAzure/lab/eventro/internal/domain/model"
	"github.com/RoyceAzure/lab/eventro/internal/infra/cache"
)

type IThreadRepo interface {
	GetThread(ctx context.Context, sessionID, threadID string) ([]model.Message, error)
	SaveThread(ctx context.Context, sessionID, threadID string, messages []model.Message) error
}

type ThreadRepo struct {
	store cache.Store
	ttl   time.Duration
}

var _ IThreadRepo = (*ThreadRepo)(nil)

func NewThreadRepo(store cache.Store, ttl time.Duration) *ThreadRepo {
	if store == nil {
		panic("thread repo dependency store is nil")
	}
	return &ThreadRepo{store: store, ttl: ttl}
}

func (r *ThreadRepo) GetThread(ctx context.Context, sessionID, threadID string) ([]model.Message, error) {
	if err := checkSession(sessionID); err != nil {
		return nil, err
	}
	return loadJSON[[]model.Message](ctx, r.store, generateThreadKey(sessionID, threadID))
}

func (r *ThreadRepo) SaveThread(ctx context.Context, sessionID, threadID string, messages []model.Message) error {
	if err := checkSession(sessionID); err != nil {
		return err
	}
	if messages == nil {
		messages = []model.Message{}
	}
	return saveJSON(ctx, r.store, generateThreadKey(sessionID, threadID), messages, r.ttl)
}
