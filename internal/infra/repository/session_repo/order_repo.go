package session_repo

import (
	"context"
	"time"

	"github.com/RoyceAzure/lab/eventro/internal/domain/model"
	"github.com/RoyceAzure/lab/eventro/internal/infra/cache"
)

type ILastOrderRepo interface {
	GetLastOrder(ctx context.Context, sessionID string) (*model.Order, error)
	SaveLastOrder(ctx context.Context, sessionID string, order *model.Order) error
	DeleteLastOrder(ctx context.Context, sessionID string) error
	NextOrderSequence(ctx context.Context) (int64, error)
}

// LastOrderRepo 只保留每個 session 最後一筆訂單，給確認頁使用
type LastOrderRepo struct {
	store cache.Store
	ttl   time.Duration
}

var _ ILastOrderRepo = (*LastOrderRepo)(nil)

func NewLastOrderRepo(store cache.Store, ttl time.Duration) *LastOrderRepo {
	if store == nil {
		panic("last order repo dependency store is nil")
	}
	return &LastOrderRepo{store: store, ttl: ttl}
}

func (r *LastOrderRepo) GetLastOrder(ctx context.Context, sessionID string) (*model.Order, error) {
	if err := checkSession(sessionID); err != nil {
		return nil, err
	}
	order, err := loadJSON[model.Order](ctx, r.store, generateLastOrderKey(sessionID))
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *LastOrderRepo) SaveLastOrder(ctx context.Context, sessionID string, order *model.Order) error {
	if err := checkSession(sessionID); err != nil {
		return err
	}
	return saveJSON(ctx, r.store, generateLastOrderKey(sessionID), order, r.ttl)
}

func (r *LastOrderRepo) DeleteLastOrder(ctx context.Context, sessionID string) error {
	if err := checkSession(sessionID); err != nil {
		return err
	}
	return r.store.Delete(ctx, generateLastOrderKey(sessionID))
}

// NextOrderSequence 全域遞增，用於訂單編號
func (r *LastOrderRepo) NextOrderSequence(ctx context.Context) (int64, error) {
	return r.store.Incr(ctx, orderSequenceKey)
}

// SeedOrderSequence 啟動時以已存在的最大序號墊高計數器，避免訂單編號重複
func (r *LastOrderRepo) SeedOrderSequence(ctx context.Context, floor int64) (int64, error) {
	return r.store.RaiseCounter(ctx, orderSequenceKey, floor)
}
