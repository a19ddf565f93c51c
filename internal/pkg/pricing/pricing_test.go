package pricing

import (
	"testing"

	"github.com/RoyceAzure/lab/eventro/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDeposit(t *testing.T) {
	testCases := []struct {
		name     string
		subtotal int64
		want     int64
	}{
		{name: "zero", subtotal: 0, want: 0},
		{name: "exact", subtotal: 500000, want: 150000},
		{name: "round half up", subtotal: 5, want: 2},
		{name: "round down", subtotal: 4, want: 1},
		{name: "round up", subtotal: 7, want: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Deposit(tc.subtotal))
		})
	}
}

func TestDepositMonotonic(t *testing.T) {
	prev := Deposit(0)
	for total := int64(1); total <= 2000; total++ {
		got := Deposit(total)
		assert.GreaterOrEqual(t, got, prev, "total=%d", total)
		prev = got
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, int64(50), Percent(1000, decimal.NewFromFloat(0.05)))
	assert.Equal(t, int64(0), Percent(0, DepositRate))
}

func TestQuote(t *testing.T) {
	items := []model.CartItem{
		{PricePerUnit: 150000, Quantity: 2},
		{PricePerUnit: 200000, Quantity: 1},
	}
	q := Quote(items)
	assert.Equal(t, int64(500000), q.Subtotal)
	assert.Equal(t, int64(150000), q.Deposit)
	assert.Equal(t, int64(5000), q.ProcessingFee)
	assert.Equal(t, int64(155000), q.TotalCharged)
	assert.Equal(t, 3, q.ItemCount)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "₦150,000", FormatPrice(150000, "NGN"))
	assert.Equal(t, "₦5,000", FormatPrice(5000, ""))
	assert.Equal(t, "₦0", FormatPrice(0, "ngn"))
	assert.Equal(t, "₦10,000,000", FormatPrice(10000000, "NGN"))
	assert.Equal(t, "$999", FormatPrice(999, "USD"))
	assert.Equal(t, "KES 1,200", FormatPrice(1200, "KES"))
	assert.Equal(t, "-₦1,500", FormatPrice(-1500, "NGN"))
}
