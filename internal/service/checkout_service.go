package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/eventro/internal/domain/model"
	"github.com/RoyceAzure/lab/eventro/internal/domain/model/event"
	"github.com/RoyceAzure/lab/eventro/internal/infra/payment"
	"github.com/RoyceAzure/lab/eventro/internal/infra/producer"
	"github.com/RoyceAzure/lab/eventro/internal/infra/repository/session_repo"
	"github.com/RoyceAzure/lab/eventro/internal/pkg/pricing"
	"github.com/RoyceAzure/lab/eventro/internal/pkg/util"
	"github.com/rs/zerolog"
)

type CheckoutServiceError error

var (
	ErrEmptyCart      CheckoutServiceError = errors.New("cart is empty")
	ErrInvalidPayment CheckoutServiceError = errors.New("invalid payment details")
	ErrOrderNotFound  CheckoutServiceError = errors.New("order not found")
)

const minCardDigits = 16

var expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)

type PaymentDetails struct {
	CardholderName string `json:"cardholder_name"`
	Email          string `json:"email"`
	CardNumber     string `json:"card_number"`
	Expiry         string `json:"expiry"`
	CVC            string `json:"cvc"`
	AcceptTerms    bool   `json:"accept_terms"`
}

func (p PaymentDetails) cardDigits() string {
	return strings.ReplaceAll(p.CardNumber, " ", "")
}

func (p PaymentDetails) cardLast4() string {
	digits := p.cardDigits()
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

// ValidationError Fields 為欄位名稱 -> 錯誤說明
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %d invalid field(s)", ErrInvalidPayment.Error(), len(e.Fields))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidPayment
}

/*
ValidatePayment 付款表單檢查
  - 必填欄位不可為空白
  - 卡號去除空白後至少 16 碼
  - 到期日格式 MM/YY
  - CVC 至少 3 碼
  - 必須同意條款
*/
func ValidatePayment(p PaymentDetails) error {
	fields := map[string]string{}

	required := map[string]string{
		"cardholder_name": p.CardholderName,
		"email":           p.Email,
		"card_number":     p.CardNumber,
		"expiry":          p.Expiry,
		"cvc":             p.CVC,
	}
	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			fields[name] = "required"
		}
	}

	if _, ok := fields["card_number"]; !ok && len(p.cardDigits()) < minCardDigits {
		fields["card_number"] = "card number must have at least 16 digits"
	}
	if _, ok := fields["expiry"]; !ok && !expiryPattern.MatchString(p.Expiry) {
		fields["expiry"] = "expiry must be MM/YY"
	}
	if _, ok := fields["cvc"]; !ok && len(p.CVC) < 3 {
		fields["cvc"] = "cvc must have at least 3 digits"
	}
	if !p.AcceptTerms {
		fields["accept_terms"] = "terms must be accepted"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

type CheckoutView struct {
	Items []model.CartItem `json:"items"`
	Quote model.OrderQuote `json:"quote"`
}

// OrderRecorder 沒有 kafka 時直接寫入訂單歷史
type OrderRecorder interface {
	RecordOrder(ctx context.Context, sessionID string, order *model.Order) error
}

type ICheckoutService interface {
	Begin(ctx context.Context, sessionID string) (*CheckoutView, error)
	Quote(ctx context.Context, sessionID string) (*CheckoutView, error)
	Checkout(ctx context.Context, sessionID string, details PaymentDetails) (*model.Order, error)
	LastOrder(ctx context.Context, sessionID string) (*model.Order, error)
}

type CheckoutService struct {
	carts     ICartService
	cartRepo  session_repo.ICartRepo
	orderRepo session_repo.ILastOrderRepo
	gateway   payment.Gateway
	publisher producer.EventPublisher
	recorder  OrderRecorder
	logger    zerolog.Logger
	now       func() time.Time
}

var _ ICheckoutService = (*CheckoutService)(nil)

type CheckoutOption func(*CheckoutService)

func WithOrderPublisher(publisher producer.EventPublisher) CheckoutOption {
	return func(s *CheckoutService) {
		if !util.IsNil(publisher) {
			s.publisher = publisher
		}
	}
}

func WithOrderRecorder(recorder OrderRecorder) CheckoutOption {
	return func(s *CheckoutService) {
		if !util.IsNil(recorder) {
			s.recorder = recorder
		}
	}
}

func WithClock(now func() time.Time) CheckoutOption {
	return func(s *CheckoutService) {
		s.now = now
	}
}

func NewCheckoutService(carts ICartService,
	cartRepo session_repo.ICartRepo,
	orderRepo session_repo.ILastOrderRepo,
	gateway payment.Gateway,
	logger zerolog.Logger,
	opts ...CheckoutOption) *CheckoutService {
	if carts == nil {
		panic("checkout service dependency carts is nil")
	}
	if cartRepo == nil {
		panic("checkout service dependency cartRepo is nil")
	}
	if orderRepo == nil {
		panic("checkout service dependency orderRepo is nil")
	}
	if gateway == nil {
		panic("checkout service dependency gateway is nil")
	}
	s := &CheckoutService{
		carts:     carts,
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		gateway:   gateway,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Begin 把目前購物車複製為結帳快照
func (s *CheckoutService) Begin(ctx context.Context, sessionID string) (*CheckoutView, error) {
	cart, err := s.carts.Open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	items := cart.Items()
	if err := s.cartRepo.SaveCheckoutCart(ctx, sessionID, items); err != nil {
		return nil, fmt.Errorf("save checkout cart failed: %w", err)
	}
	return &CheckoutView{Items: items, Quote: pricing.Quote(items)}, nil
}

// loadSnapshot 快照不存在或損毀都視為空的
func (s *CheckoutService) loadSnapshot(ctx context.Context, sessionID string) ([]model.CartItem, error) {
	items, err := s.cartRepo.GetCheckoutCart(ctx, sessionID)
	switch {
	case err == nil:
		return items, nil
	case errors.Is(err, session_repo.ErrStateNotFound):
		return []model.CartItem{}, nil
	case errors.Is(err, session_repo.ErrCorruptState):
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("corrupt checkout cart, treat as empty")
		return []model.CartItem{}, nil
	default:
		return nil, err
	}
}

func (s *CheckoutService) Quote(ctx context.Context, sessionID string) (*CheckoutView, error) {
	items, err := s.loadSnapshot(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	return &CheckoutView{Items: items, Quote: pricing.Quote(items)}, nil
}

/*
Checkout 付款並建立訂單
付款失敗時不修改任何狀態，直接回傳錯誤，不重試
錯誤:
  - ErrEmptyCart: 沒有結帳快照
  - *ValidationError (ErrInvalidPayment): 表單資料錯誤
  - payment.ErrDeclined / payment.ErrTimeout
*/
func (s *CheckoutService) Checkout(ctx context.Context, sessionID string, details PaymentDetails) (*model.Order, error) {
	items, err := s.loadSnapshot(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	if err := ValidatePayment(details); err != nil {
		return nil, err
	}

	quote := pricing.Quote(items)
	logger := s.logger.With().Str("session_id", sessionID).Logger()

	charge, err := s.gateway.Charge(ctx, payment.ChargeRequest{
		SessionID:      sessionID,
		Amount:         quote.TotalCharged,
		Currency:       pricing.DefaultCurrency,
		CardholderName: strings.TrimSpace(details.CardholderName),
		CardLast4:      details.cardLast4(),
	})
	if err != nil {
		logger.Warn().Err(err).Int64("amount", quote.TotalCharged).Msg("payment failed")
		return nil, err
	}

	seq, err := s.orderRepo.NextOrderSequence(ctx)
	if err != nil {
		logger.Error().Err(err).Str("transaction_id", charge.TransactionID).Msg("failed to allocate order reference after charge")
		return nil, fmt.Errorf("allocate order reference failed: %w", err)
	}

	processedAt := s.now().UTC()
	order := &model.Order{
		ID:            util.GenerateID(),
		Reference:     util.FormatOrderReference(processedAt, seq),
		Items:         items,
		Subtotal:      quote.Subtotal,
		Deposit:       quote.Deposit,
		ProcessingFee: quote.ProcessingFee,
		TotalCharged:  quote.TotalCharged,
		ProcessedAt:   processedAt,
	}

	if err := s.orderRepo.SaveLastOrder(ctx, sessionID, order); err != nil {
		logger.Error().Err(err).Str("reference", order.Reference).Msg("failed to save last order after charge")
		return nil, fmt.Errorf("save last order failed: %w", err)
	}

	// 訂單已成立，之後的清理失敗只記錄
	if cart, err := s.carts.Open(ctx, sessionID); err != nil {
		logger.Warn().Err(err).Msg("failed to open cart for clearing")
	} else if err := cart.Clear(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to clear cart")
	}
	if err := s.cartRepo.DeleteCheckoutCart(ctx, sessionID); err != nil {
		logger.Warn().Err(err).Msg("failed to delete checkout cart")
	}

	s.project(ctx, sessionID, order, logger)

	logger.Info().
		Str("reference", order.Reference).
		Int64("total_charged", order.TotalCharged).
		Msg("order placed")
	return order, nil
}

// project 有 kafka 時發送 OrderPlaced，否則直接寫入訂單歷史
func (s *CheckoutService) project(ctx context.Context, sessionID string, order *model.Order, logger zerolog.Logger) {
	if s.publisher != nil {
		evt := &event.OrderPlacedEvent{
			BaseEvent: event.NewBaseEvent(sessionID, event.OrderPlacedEventName),
			SessionID: sessionID,
			Order:     *order,
		}
		if err := s.publisher.Publish(ctx, evt); err != nil {
			logger.Warn().Err(err).Str("reference", order.Reference).Msg("failed to publish order placed event")
		}
		return
	}
	if s.recorder != nil {
		if err := s.recorder.RecordOrder(ctx, sessionID, order); err != nil {
			logger.Warn().Err(err).Str("reference", order.Reference).Msg("failed to record order")
		}
	}
}

// LastOrder 確認頁資料，損毀視為不存在並清除
func (s *CheckoutService) LastOrder(ctx context.Context, sessionID string) (*model.Order, error) {
	order, err := s.orderRepo.GetLastOrder(ctx, sessionID)
	switch {
	case err == nil:
		return order, nil
	case errors.Is(err, session_repo.ErrStateNotFound):
		return nil, ErrOrderNotFound
	case errors.Is(err, session_repo.ErrCorruptState):
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("corrupt last order, reset")
		if err := s.orderRepo.DeleteLastOrder(ctx, sessionID); err != nil {
			return nil, err
		}
		return nil, ErrOrderNotFound
	default:
		return nil, err
	}
}
