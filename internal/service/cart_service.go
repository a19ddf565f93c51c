package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/eventro/internal/domain/model"
	"github.com/RoyceAzure/lab/eventro/internal/domain/model/event"
	"github.com/RoyceAzure/lab/eventro/internal/infra/producer"
	"github.com/RoyceAzure/lab/eventro/internal/infra/repository/session_repo"
	"github.com/RoyceAzure/lab/eventro/internal/pkg/pricing"
	"github.com/RoyceAzure/lab/eventro/internal/pkg/util"
	"github.com/rs/zerolog"
)

type CartServiceError error

var (
	ErrCartNotLoaded   CartServiceError = errors.New("cart is not loaded")
	ErrInvalidItem     CartServiceError = errors.New("invalid cart item")
	ErrInvalidQuantity CartServiceError = errors.New("invalid quantity")
)

// MaxItemQuantity 單一項目的數量上限，合併後超過時以上限為準
const MaxItemQuantity = 99

// AddItemInput 加入購物車需要的資料，Quantity 小於 1 視為 1，超過 MaxItemQuantity 回傳 ErrInvalidQuantity
type AddItemInput struct {
	ListingID    int64
	PackageID    int64
	Title        string
	PackageName  string
	VendorName   string
	VendorAvatar string
	PricePerUnit int64
	Unit         model.PricingUnit
	Quantity     int
}

// NewAddItemInput 由 listing 與方案組成加入購物車的資料
func NewAddItemInput(listing *model.Listing, pkg *model.Package, quantity int) AddItemInput {
	return AddItemInput{
		ListingID:    listing.ID,
		PackageID:    pkg.ID,
		Title:        listing.Title,
		PackageName:  pkg.Name,
		VendorName:   listing.VendorName,
		VendorAvatar: listing.VendorAvatar,
		PricePerUnit: pkg.Price,
		Unit:         pkg.Unit,
		Quantity:     quantity,
	}
}

type CartSummary struct {
	Items         []model.CartItem `json:"items"`
	ServicesCount int              `json:"servicesCount"`
	ItemCount     int              `json:"itemCount"`
	Subtotal      int64            `json:"subtotal"`
	Deposit       int64            `json:"deposit"`
	CanCheckout   bool             `json:"canCheckout"`
}

/*
CartStore 單一 session 的購物車
每次修改都會先寫入 store 成功後才更新記憶體內容
不可跨 goroutine 共用
*/
type CartStore struct {
	sessionID string
	repo      session_repo.ICartRepo
	publisher producer.EventPublisher
	logger    zerolog.Logger
	now       func() time.Time
	items     []model.CartItem
	loaded    bool
}

// publisher 可為 nil
func NewCartStore(sessionID string, repo session_repo.ICartRepo, publisher producer.EventPublisher, logger zerolog.Logger) *CartStore {
	if repo == nil {
		panic("cart store dependency repo is nil")
	}
	if util.IsNil(publisher) {
		publisher = nil
	}
	return &CartStore{
		sessionID: sessionID,
		repo:      repo,
		publisher: publisher,
		logger:    logger.With().Str("session_id", sessionID).Logger(),
		now:       time.Now,
		items:     []model.CartItem{},
	}
}

/*
Load 讀取購物車
不存在: 空購物車
資料損毀: 重設為空購物車並寫回，只記錄 warning
其他錯誤 (store 無法連線等) 直接回傳
*/
func (c *CartStore) Load(ctx context.Context) error {
	items, err := c.repo.GetCart(ctx, c.sessionID)
	switch {
	case err == nil:
		if items == nil {
			items = []model.CartItem{}
		}
		c.items = items
	case errors.Is(err, session_repo.ErrStateNotFound):
		c.items = []model.CartItem{}
	case errors.Is(err, session_repo.ErrCorruptState):
		c.logger.Warn().Err(err).Msg("corrupt cart data, reset to empty cart")
		if err := c.repo.SaveCart(ctx, c.sessionID, []model.CartItem{}); err != nil {
			return fmt.Errorf("reset corrupt cart failed: %w", err)
		}
		c.items = []model.CartItem{}
	default:
		return err
	}
	c.loaded = true
	return nil
}

func (c *CartStore) SessionID() string {
	return c.sessionID
}

func (c *CartStore) persist(ctx context.Context, items []model.CartItem) error {
	if !c.loaded {
		return ErrCartNotLoaded
	}
	if err := c.repo.SaveCart(ctx, c.sessionID, items); err != nil {
		return err
	}
	c.items = items
	return nil
}

func (c *CartStore) publish(ctx context.Context, evt event.Event) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, evt); err != nil {
		c.logger.Warn().Err(err).Str("event_type", string(evt.Type())).Msg("failed to publish cart event")
	}
}

func (c *CartStore) indexOf(itemID string) int {
	for i, item := range c.items {
		if item.ID == itemID {
			return i
		}
	}
	return -1
}

func (c *CartStore) cloneItems() []model.CartItem {
	items := make([]model.CartItem, len(c.items))
	copy(items, c.items)
	return items
}

/*
Add 同一個 (ListingID, PackageID) 已存在時累加數量，否則新增一筆
回傳加入或合併後的項目
*/
func (c *CartStore) Add(ctx context.Context, in AddItemInput) (model.CartItem, error) {
	if in.ListingID <= 0 || in.PricePerUnit < 0 {
		return model.CartItem{}, fmt.Errorf("%w: listing %d price %d", ErrInvalidItem, in.ListingID, in.PricePerUnit)
	}
	if in.Quantity < 1 {
		in.Quantity = 1
	}
	if in.Quantity > MaxItemQuantity {
		return model.CartItem{}, fmt.Errorf("%w: %d exceeds %d", ErrInvalidQuantity, in.Quantity, MaxItemQuantity)
	}

	items := c.cloneItems()
	idx := -1
	for i, item := range items {
		if item.ListingID == in.ListingID && item.PackageID == in.PackageID {
			idx = i
			break
		}
	}

	if idx >= 0 {
		items[idx].Quantity = min(items[idx].Quantity+in.Quantity, MaxItemQuantity)
	} else {
		items = append(items, model.CartItem{
			ID:           util.GenerateID(),
			ListingID:    in.ListingID,
			PackageID:    in.PackageID,
			Title:        in.Title,
			PackageName:  in.PackageName,
			VendorName:   in.VendorName,
			VendorAvatar: in.VendorAvatar,
			PricePerUnit: in.PricePerUnit,
			Unit:         in.Unit,
			Quantity:     in.Quantity,
			AddedAt:      c.now().UTC(),
		})
		idx = len(items) - 1
	}

	if err := c.persist(ctx, items); err != nil {
		return model.CartItem{}, err
	}

	item := c.items[idx]
	c.publish(ctx, &event.CartItemAddedEvent{
		BaseEvent: event.NewBaseEvent(c.sessionID, event.CartItemAddedEventName),
		Item:      item,
	})
	return item, nil
}

// Remove 項目不存在時不做任何事
func (c *CartStore) Remove(ctx context.Context, itemID string) error {
	if c.indexOf(itemID) < 0 {
		return nil
	}
	items := make([]model.CartItem, 0, len(c.items))
	for _, item := range c.items {
		if item.ID != itemID {
			items = append(items, item)
		}
	}
	if err := c.persist(ctx, items); err != nil {
		return err
	}
	c.publish(ctx, &event.CartItemRemovedEvent{
		BaseEvent: event.NewBaseEvent(c.sessionID, event.CartItemRemovedEventName),
		ItemID:    itemID,
	})
	return nil
}

/*
UpdateQuantity 項目不存在或 quantity <= 0 時不做任何事
錯誤:
  - ErrInvalidQuantity 超過 MaxItemQuantity
*/
func (c *CartStore) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	idx := c.indexOf(itemID)
	if idx < 0 || quantity <= 0 {
		return nil
	}
	if quantity > MaxItemQuantity {
		return fmt.Errorf("%w: %d exceeds %d", ErrInvalidQuantity, quantity, MaxItemQuantity)
	}
	if c.items[idx].Quantity == quantity {
		return nil
	}
	items := c.cloneItems()
	items[idx].Quantity = quantity
	if err := c.persist(ctx, items); err != nil {
		return err
	}
	c.publish(ctx, &event.CartItemUpdatedEvent{
		BaseEvent: event.NewBaseEvent(c.sessionID, event.CartItemUpdatedEventName),
		ItemID:    itemID,
		Quantity:  quantity,
	})
	return nil
}

// Increment 已達 MaxItemQuantity 時不做任何事
func (c *CartStore) Increment(ctx context.Context, itemID string) error {
	idx := c.indexOf(itemID)
	if idx < 0 || c.items[idx].Quantity >= MaxItemQuantity {
		return nil
	}
	return c.UpdateQuantity(ctx, itemID, c.items[idx].Quantity+1)
}

// Decrement 數量最少為 1，要移除請用 Remove
func (c *CartStore) Decrement(ctx context.Context, itemID string) error {
	idx := c.indexOf(itemID)
	if idx < 0 || c.items[idx].Quantity <= 1 {
		return nil
	}
	return c.UpdateQuantity(ctx, itemID, c.items[idx].Quantity-1)
}

func (c *CartStore) Clear(ctx context.Context) error {
	if err := c.persist(ctx, []model.CartItem{}); err != nil {
		return err
	}
	c.publish(ctx, &event.CartClearedEvent{
		BaseEvent: event.NewBaseEvent(c.sessionID, event.CartClearedEventName),
	})
	return nil
}

func (c *CartStore) Items() []model.CartItem {
	return c.cloneItems()
}

func (c *CartStore) Total() int64 {
	return pricing.Subtotal(c.items)
}

func (c *CartStore) Deposit() int64 {
	return pricing.Deposit(c.Total())
}

// ItemCount 購物車徽章顯示的數量，為所有項目數量加總
func (c *CartStore) ItemCount() int {
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

func (c *CartStore) IsEmpty() bool {
	return len(c.items) == 0
}

func (c *CartStore) Summary() CartSummary {
	total := c.Total()
	return CartSummary{
		Items:         c.Items(),
		ServicesCount: len(c.items),
		ItemCount:     c.ItemCount(),
		Subtotal:      total,
		Deposit:       pricing.Deposit(total),
		CanCheckout:   len(c.items) > 0,
	}
}

type ICartService interface {
	Open(ctx context.Context, sessionID string) (*CartStore, error)
}

// CartService 依 session 建立並載入 CartStore
type CartService struct {
	repo      session_repo.ICartRepo
	publisher producer.EventPublisher
	logger    zerolog.Logger
}

var _ ICartService = (*CartService)(nil)

func NewCartService(repo session_repo.ICartRepo, publisher producer.EventPublisher, logger zerolog.Logger) *CartService {
	if repo == nil {
		panic("cart service dependency repo is nil")
	}
	return &CartService{repo: repo, publisher: publisher, logger: logger}
}

func (s *CartService) Open(ctx context.Context, sessionID string) (*CartStore, error) {
	store := NewCartStore(sessionID, s.repo, s.publisher, s.logger)
	if err := store.Load(ctx); err != nil {
		return nil, err
	}
	return store, nil
}
