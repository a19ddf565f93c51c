package service

import (
	"context"
	"errors"
	"strings"

	"github.com/RoyceAzure/lab/eventro/internal/domain/model"
	"github.com/RoyceAzure/lab/eventro/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/eventro/internal/infra/repository/session_repo"
	"github.com/RoyceAzure/lab/eventro/internal/pkg/pagination"
)

// OrderHistoryReader 訂單投影的讀取端
type OrderHistoryReader interface {
	GetOrderByReference(ctx context.Context, reference string) (*model.Order, error)
	GetOrdersBySession(ctx context.Context, sessionID string, page, pageSize int) ([]model.Order, int64, error)
}

var _ OrderHistoryReader = (db.IOrderRepository)(nil)

type OrderHistoryPage struct {
	Orders []model.Order         `json:"orders"`
	Window pagination.PageWindow `json:"pagination"`
}

type IOrderHistoryService interface {
	History(ctx context.Context, sessionID string, page, pageSize int) (*OrderHistoryPage, error)
	Get(ctx context.Context, reference string) (*model.Order, error)
}

type OrderHistoryService struct {
	reader OrderHistoryReader
}

var _ IOrderHistoryService = (*OrderHistoryService)(nil)

func NewOrderHistoryService(reader OrderHistoryReader) *OrderHistoryService {
	if reader == nil {
		panic("order history service dependency reader is nil")
	}
	return &OrderHistoryService{reader: reader}
}

// History 分頁以投影中的總筆數計算，page 超出範圍時回傳最後一頁
func (s *OrderHistoryService) History(ctx context.Context, sessionID string, page, pageSize int) (*OrderHistoryPage, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, session_repo.ErrEmptySession
	}
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}

	_, total, err := s.reader.GetOrdersBySession(ctx, sessionID, 1, 1)
	if err != nil {
		return nil, err
	}
	window := pagination.Paginate(int(total), pageSize, page)

	orders := []model.Order{}
	if total > 0 {
		orders, _, err = s.reader.GetOrdersBySession(ctx, sessionID, window.CurrentPage, pageSize)
		if err != nil {
			return nil, err
		}
	}
	return &OrderHistoryPage{Orders: orders, Window: window}, nil
}

func (s *OrderHistoryService) Get(ctx context.Context, reference string) (*model.Order, error) {
	order, err := s.reader.GetOrderByReference(ctx, strings.TrimSpace(reference))
	if errors.Is(err, db.ErrOrderNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}
