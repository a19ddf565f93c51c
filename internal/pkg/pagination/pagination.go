package pagination

const (
	DefaultPageSize = 12
	// 目前頁左右各顯示幾頁
	windowRadius = 2
)

type PageItem struct {
	Page     int  `json:"page,omitempty"`
	Current  bool `json:"current,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

type PageWindow struct {
	TotalItems  int        `json:"total_items"`
	PageSize    int        `json:"page_size"`
	CurrentPage int        `json:"current_page"`
	TotalPages  int        `json:"total_pages"`
	Show        bool       `json:"show"`
	HasPrev     bool       `json:"has_prev"`
	HasNext     bool       `json:"has_next"`
	PrevPage    int        `json:"prev_page,omitempty"`
	NextPage    int        `json:"next_page,omitempty"`
	Items       []PageItem `json:"items"`
}

// Pages 只回傳頁碼，不含省略號
func (w PageWindow) Pages() []int {
	pages := make([]int, 0, len(w.Items))
	for _, item := range w.Items {
		if !item.Ellipsis {
			pages = append(pages, item.Page)
		}
	}
	return pages
}

func (w PageWindow) HasEllipsis() bool {
	for _, item := range w.Items {
		if item.Ellipsis {
			return true
		}
	}
	return false
}

/*
Paginate 計算分頁視窗
目前頁左右各兩頁，第一頁與最後一頁永遠顯示，中間斷開處以省略號表示
totalPages <= 1 時 Show 為 false，不需要顯示分頁元件
超出範圍的 currentPage 會被限制在 [1, totalPages]
*/
func Paginate(totalItems, pageSize, currentPage int) PageWindow {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if totalItems < 0 {
		totalItems = 0
	}
	totalPages := (totalItems + pageSize - 1) / pageSize
	currentPage = clamp(currentPage, 1, max(1, totalPages))

	w := PageWindow{
		TotalItems:  totalItems,
		PageSize:    pageSize,
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		Show:        totalPages > 1,
		Items:       []PageItem{},
	}
	if !w.Show {
		return w
	}

	w.HasPrev = currentPage > 1
	w.HasNext = currentPage < totalPages
	if w.HasPrev {
		w.PrevPage = currentPage - 1
	}
	if w.HasNext {
		w.NextPage = currentPage + 1
	}

	start := max(1, currentPage-windowRadius)
	end := min(totalPages, currentPage+windowRadius)

	if start > 1 {
		w.Items = append(w.Items, PageItem{Page: 1})
		if start > 2 {
			w.Items = append(w.Items, PageItem{Ellipsis: true})
		}
	}
	for i := start; i <= end; i++ {
		w.Items = append(w.Items, PageItem{Page: i, Current: i == currentPage})
	}
	if end < totalPages {
		if end < totalPages-1 {
			w.Items = append(w.Items, PageItem{Ellipsis: true})
		}
		w.Items = append(w.Items, PageItem{Page: totalPages})
	}
	return w
}

// Offset 第 page 頁的起始 index
func Offset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}

// Slice 依分頁視窗切出該頁資料
func Slice[T any](items []T, w PageWindow) []T {
	start := Offset(w.CurrentPage, w.PageSize)
	if start >= len(items) {
		return []T{}
	}
	end := min(start+w.PageSize, len(items))
	return items[start:end]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
