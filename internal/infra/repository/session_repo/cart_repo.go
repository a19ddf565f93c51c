package session_repo

import (
	"context"
	"time"

	"github.com/RoyceAzure/lab/eventro/internal/domain/model"
	"github.com/RoyceAzure/lab/eventro/internal/infra/cache"
)

type ICartRepo interface {
	GetCart(ctx context.Context, sessionID string) ([]model.CartItem, error)
	SaveCart(ctx context.Context, sessionID string, items []model.CartItem) error
	GetCheckoutCart(ctx context.Context, sessionID string) ([]model.CartItem, error)
	SaveCheckoutCart(ctx context.Context, sessionID string, items []model.CartItem) error
	DeleteCheckoutCart(ctx context.Context, sessionID string) error
}

// CartRepo 購物車與結帳快照各自一個 key，值為 JSON array
type CartRepo struct {
	store cache.Store
	ttl   time.Duration
}

var _ ICartRepo = (*CartRepo)(nil)

func NewCartRepo(store cache.Store, ttl time.Duration) *CartRepo {
	if store == nil {
		panic("cart repo dependency store is nil")
	}
	return &CartRepo{store: store, ttl: ttl}
}

func (r *CartRepo) GetCart(ctx context.Context, sessionID string) ([]model.CartItem, error) {
	if err := checkSession(sessionID); err != nil {
		return nil, err
	}
	return loadJSON[[]model.CartItem](ctx, r.store, generateCartKey(sessionID))
}

func (r *CartRepo) SaveCart(ctx context.Context, sessionID string, items []model.CartItem) error {
	if err := checkSession(sessionID); err != nil {
		return err
	}
	if items == nil {
		items = []model.CartItem{}
	}
	return saveJSON(ctx, r.store, generateCartKey(sessionID), items, r.ttl)
}

func (r *CartRepo) GetCheckoutCart(ctx context.Context, sessionID string) ([]model.CartItem, error) {
	if err := checkSession(sessionID); err != nil {
		return nil, err
	}
	return loadJSON[[]model.CartItem](ctx, r.store, generateCheckoutCartKey(sessionID))
}

func (r *CartRepo) SaveCheckoutCart(ctx context.Context, sessionID string, items []model.CartItem) error {
	if err := checkSession(sessionID); err != nil {
		return err
	}
	if items == nil {
		items = []model.CartItem{}
	}
	return saveJSON(ctx, r.store, generateCheckoutCartKey(sessionID), items, r.ttl)
}

func (r *CartRepo) DeleteCheckoutCart(ctx context.Context, sessionID string) error {
	if err := checkSession(sessionID); err != nil {
		return err
	}
	return r.store.Delete(ctx, generateCheckoutCartKey(sessionID))
}
