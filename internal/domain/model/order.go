package model

import "time"

// Order 結帳成功後建立，之後不再修改
type Order struct {
	ID            string     `json:"id"`
	Reference     string     `json:"reference"`
	Items         []CartItem `json:"items"`
	Subtotal      int64      `json:"subtotal"`
	Deposit       int64      `json:"deposit"`
	ProcessingFee int64      `json:"processingFee"`
	TotalCharged  int64      `json:"totalCharged"`
	ProcessedAt   time.Time  `json:"processedAt"`
}

// OrderQuote 結帳頁面顯示的金額
type OrderQuote struct {
	// 各項數量加總，與購物車的 ItemCount 相同
	ItemCount     int   `json:"itemCount"`
	Subtotal      int64 `json:"subtotal"`
	Deposit       int64 `json:"deposit"`
	ProcessingFee int64 `json:"processingFee"`
	TotalCharged  int64 `json:"totalCharged"`
}
