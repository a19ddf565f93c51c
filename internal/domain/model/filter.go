package model

const DefaultMaxPrice int64 = 10_000_000

// FilterState 列表頁的篩選條件，零值代表該條件不啟用
type FilterState struct {
	Search      string  `json:"search"`
	CategoryID  int64   `json:"category_id"`
	MinPrice    int64   `json:"min_price"`
	MaxPrice    int64   `json:"max_price"`
	Country     string  `json:"country"`
	State       string  `json:"state"`
	City        string  `json:"city"`
	Rating      float64 `json:"rating"`
	InstantBook bool    `json:"instant_book"`
}

func NewFilterState() FilterState {
	return FilterState{MaxPrice: DefaultMaxPrice}
}

type SortKey string

const (
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
	SortNewest    SortKey = "newest"
)

// ParseSortKey 不認得的值一律視為 newest
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPriceLow, SortPriceHigh, SortRating, SortNewest:
		return SortKey(s)
	default:
		return SortNewest
	}
}
