package db

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/RoyceAzure/lab/eventro/internal/domain/model"
	"github.com/RoyceAzure/lab/eventro/internal/infra/repository/db/model"
	"github.com/RoyceAzure/lab/eventro/internal/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepoError error

var ErrOrderNotFound OrderRepoError = errors.New("order not found")

type IOrderRepository interface {
	RecordOrder(ctx context.Context, sessionID string, order *domain.Order) error
	GetOrderByReference(ctx context.Context, reference string) (*domain.Order, error)
	GetOrdersBySession(ctx context.Context, sessionID string, page, pageSize int) ([]domain.Order, int64, error)
	MaxOrderSequence(ctx context.Context) (int64, error)
}

// OrderRepo 訂單歷史，session 狀態仍以 kv store 為主
type OrderRepo struct {
	db *DbDao
}

var _ IOrderRepository = (*OrderRepo)(nil)

func NewOrderRepo(db *DbDao) *OrderRepo {
	if db == nil {
		panic("order repo dependency db is nil")
	}
	return &OrderRepo{db: db}
}

// RecordOrder 重複寫入同一訂單不會報錯，事件重送時保持冪等
func (s *OrderRepo) RecordOrder(ctx context.Context, sessionID string, order *domain.Order) error {
	record := model.FromDomainOrder(sessionID, order)
	items := record.OrderItems
	record.OrderItems = nil

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			DoNothing: true,
		}).Create(record).Error; err != nil {
			return fmt.Errorf("failed to create order %s: %w", order.Reference, err)
		}
		if len(items) == 0 {
			return nil
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}, {Name: "item_id"}},
			DoNothing: true,
		}).Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create order items %s: %w", order.Reference, err)
		}
		return nil
	})
}

func (s *OrderRepo) GetOrderByReference(ctx context.Context, reference string) (*domain.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").First(&order, "reference = ?", reference).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return order.ToDomain(), nil
}

// GetOrdersBySession 依處理時間新到舊分頁
func (s *OrderRepo) GetOrdersBySession(ctx context.Context, sessionID string, page, pageSize int) ([]domain.Order, int64, error) {
	var records []model.Order
	var total int64

	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	query := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&model.Order{}).Where("session_id = ?", sessionID)
	}
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query().Preload("OrderItems").
		Order("processed_at DESC").
		Offset(pagination.Offset(page, pageSize)).
		Limit(pageSize).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	orders := make([]domain.Order, len(records))
	for i := range records {
		orders[i] = *records[i].ToDomain()
	}
	return orders, total, nil
}

// MaxOrderSequence 已投影訂單編號 EH-<year>-<seq> 中最大的 seq，沒有訂單時為 0
func (s *OrderRepo) MaxOrderSequence(ctx context.Context) (int64, error) {
	var seq int64
	err := s.db.WithContext(ctx).Raw(
		`SELECT COALESCE(MAX(CAST(split_part(reference, '-', 3) AS BIGINT)), 0)
		FROM orders WHERE reference ~ '^EH-[0-9]+-[0-9]+$'`,
	).Scan(&seq).Error
	if err != nil {
		return 0, fmt.Errorf("failed to get max order sequence: %w", err)
	}
	return seq, nil
}
