package pricing

import (
	"fmt"
	"strings"

	"github.com/RoyceAzure/lab/eventro/internal/domain/model"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// 固定手續費，最小貨幣單位
	ProcessingFee int64 = 5000

	DefaultCurrency = "NGN"
)

var DepositRate = decimal.NewFromFloat(0.30)

var currencySymbols = map[string]string{
	"NGN": "₦",
	"USD": "$",
	"GBP": "£",
	"EUR": "€",
}

var printer = message.NewPrinter(language.English)

// Percent 四捨五入到整數 (half away from zero)
func Percent(amount int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(rate).Round(0).IntPart()
}

func Deposit(subtotal int64) int64 {
	return Percent(subtotal, DepositRate)
}

func Subtotal(items []model.CartItem) int64 {
	var sum int64
	for _, item := range items {
		sum += item.LineTotal()
	}
	return sum
}

// Quote 計算結帳金額，總收費 = 訂金 + 手續費
func Quote(items []model.CartItem) model.OrderQuote {
	subtotal := Subtotal(items)
	deposit := Deposit(subtotal)
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return model.OrderQuote{
		ItemCount:     count,
		Subtotal:      subtotal,
		Deposit:       deposit,
		ProcessingFee: ProcessingFee,
		TotalCharged:  deposit + ProcessingFee,
	}
}

// FormatPrice 金額不做小數換算，直接以整數加上千分位顯示
func FormatPrice(amount int64, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	code := strings.ToUpper(currency)
	digits := printer.Sprintf("%d", abs(amount))
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	if symbol, ok := currencySymbols[code]; ok {
		return sign + symbol + digits
	}
	return fmt.Sprintf("%s%s %s", sign, code, digits)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
