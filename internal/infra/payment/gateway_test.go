package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedGatewaySuccess(t *testing.T) {
	g := NewSimulatedGateway(WithLatency(10 * time.Millisecond))
	start := time.Now()
	res, err := g.Charge(context.Background(), ChargeRequest{Amount: 155000, Currency: "NGN"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	assert.Equal(t, int64(155000), res.Amount)
	assert.NotEmpty(t, res.TransactionID)
}

func TestSimulatedGatewayOutcomes(t *testing.T) {
	testCases := []struct {
		name    string
		outcome Outcome
		wantErr error
	}{
		{name: "declined", outcome: OutcomeDeclined, wantErr: ErrDeclined},
		{name: "timeout", outcome: OutcomeTimeout, wantErr: ErrTimeout},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewSimulatedGateway(WithLatency(0), WithOutcome(tc.outcome))
			_, err := g.Charge(context.Background(), ChargeRequest{Amount: 100})
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestSimulatedGatewayInvalidAmount(t *testing.T) {
	g := NewSimulatedGateway(WithLatency(0))
	_, err := g.Charge(context.Background(), ChargeRequest{Amount: 0})
	assert.ErrorIs(t, err, ErrDeclined)
}

func TestSimulatedGatewayTimeout(t *testing.T) {
	g := NewSimulatedGateway(WithLatency(time.Second), WithTimeout(10*time.Millisecond))
	_, err := g.Charge(context.Background(), ChargeRequest{Amount: 100})
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestSimulatedGatewayCancel(t *testing.T) {
	g := NewSimulatedGateway(WithLatency(time.Second))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Charge(ctx, ChargeRequest{Amount: 100})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulatedGatewaySetOutcome(t *testing.T) {
	g := NewSimulatedGateway(WithLatency(0))
	g.SetOutcome(OutcomeDeclined)
	_, err := g.Charge(context.Background(), ChargeRequest{Amount: 100})
	assert.ErrorIs(t, err, ErrDeclined)
}
