package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/RoyceAzure/lab/eventro/internal/pkg/util"
)

type PaymentError error

var (
	ErrDeclined PaymentError = errors.New("payment declined")
	ErrTimeout  PaymentError = errors.New("payment timed out")
)

type ChargeRequest struct {
	SessionID      string
	Amount         int64
	Currency       string
	CardholderName string
	// 只保留末四碼
	CardLast4 string
}

type ChargeResult struct {
	TransactionID string
	Amount        int64
	ChargedAt     time.Time
}

// Gateway 付款介面，失敗時不重試
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeDeclined Outcome = "declined"
	OutcomeTimeout  Outcome = "timeout"
)

// SimulatedGateway 等待 latency 後依 outcome 回傳結果，不會呼叫外部服務
type SimulatedGateway struct {
	latency time.Duration
	timeout time.Duration
	mu      sync.RWMutex
	outcome Outcome
}

var _ Gateway = (*SimulatedGateway)(nil)

type Option func(*SimulatedGateway)

func WithLatency(latency time.Duration) Option {
	return func(g *SimulatedGateway) {
		g.latency = latency
	}
}

// WithTimeout 0 代表不限制
func WithTimeout(timeout time.Duration) Option {
	return func(g *SimulatedGateway) {
		g.timeout = timeout
	}
}

func WithOutcome(outcome Outcome) Option {
	return func(g *SimulatedGateway) {
		g.outcome = outcome
	}
}

func NewSimulatedGateway(opts ...Option) *SimulatedGateway {
	g := &SimulatedGateway{
		latency: 2 * time.Second,
		outcome: OutcomeSuccess,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *SimulatedGateway) SetOutcome(outcome Outcome) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.outcome = outcome
}

func (g *SimulatedGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: invalid amount %d", ErrDeclined, req.Amount)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	g.mu.RLock()
	outcome := g.outcome
	g.mu.RUnlock()

	timer := time.NewTimer(g.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ctx.Err()
	case <-timer.C:
	}

	switch outcome {
	case OutcomeDeclined:
		return nil, ErrDeclined
	case OutcomeTimeout:
		return nil, ErrTimeout
	}

	return &ChargeResult{
		TransactionID: util.GenerateID(),
		Amount:        req.Amount,
		ChargedAt:     time.Now().UTC(),
	}, nil
}
