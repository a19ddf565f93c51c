package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/RoyceAzure/lab/eventro/internal/domain/model"
	"github.com/RoyceAzure/lab/eventro/internal/infra/cache"
	"github.com/RoyceAzure/lab/eventro/internal/infra/catalog"
	"github.com/RoyceAzure/lab/eventro/internal/pkg/pagination"
	"github.com/rs/zerolog"
)

type ListingServiceError error

var (
	ErrListingNotFound ListingServiceError = errors.New("listing not found")
	ErrPackageNotFound ListingServiceError = errors.New("package not found")
)

const searchCachePrefix = "eventro-search"

// 沒有方案的 listing 以 packageID 0 代表基本價格
const basePackageID int64 = 0

type SearchRequest struct {
	Filter   model.FilterState
	Sort     model.SortKey
	Page     int
	PageSize int
}

type SearchResult struct {
	Listings      []model.Listing       `json:"listings"`
	TotalResults  int                   `json:"total_results"`
	TotalListings int                   `json:"total_listings"`
	ResultsText   string                `json:"results_text"`
	Window        pagination.PageWindow `json:"pagination"`
	Degraded      bool                  `json:"degraded"`
}

// SearchEntry 快取篩選與排序後的完整結果，分頁在快取之外計算
type SearchEntry struct {
	Listings      []model.Listing `json:"listings"`
	TotalListings int             `json:"total_listings"`
}

type IListingService interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResult, error)
	Get(ctx context.Context, listingID int64) (*model.Listing, error)
	Package(ctx context.Context, listingID, packageID int64) (*model.Listing, *model.Package, error)
	Categories(ctx context.Context) catalog.Result[[]model.Category]
	InvalidateSearchCache()
}

type ListingService struct {
	provider catalog.IProvider
	cache    *cache.SearchCache[SearchEntry]
	logger   zerolog.Logger
}

var _ IListingService = (*ListingService)(nil)

// searchCache 可為 nil，此時每次都重新計算
func NewListingService(provider catalog.IProvider, searchCache *cache.SearchCache[SearchEntry], logger zerolog.Logger) *ListingService {
	if provider == nil {
		panic("listing service dependency provider is nil")
	}
	return &ListingService{provider: provider, cache: searchCache, logger: logger}
}

// NewSearchCache 建立 ListingService 使用的查詢快取
func NewSearchCache(maxSize int64, logger zerolog.Logger, opts ...cache.SearchCacheOption[SearchEntry]) *cache.SearchCache[SearchEntry] {
	return cache.NewSearchCache[SearchEntry](maxSize, logger, opts...)
}

// WithSearchMemcached 搜尋快取的 memcached 第二層
func WithSearchMemcached(client cache.MemcacheClient) cache.SearchCacheOption[SearchEntry] {
	return cache.WithMemcached[SearchEntry](client)
}

func normalizeFilter(f model.FilterState) model.FilterState {
	f.Search = strings.ToLower(strings.TrimSpace(f.Search))
	if f.MaxPrice <= 0 {
		f.MaxPrice = model.DefaultMaxPrice
	}
	if f.MinPrice < 0 {
		f.MinPrice = 0
	}
	return f
}

/*
Search 載入 -> 篩選 -> 排序 -> 分頁
使用內建資料時 Degraded 為 true，且結果不寫入快取
*/
func (s *ListingService) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	req.Filter = normalizeFilter(req.Filter)
	req.Sort = model.ParseSortKey(string(req.Sort))

	key := cache.Key(searchCachePrefix, struct {
		Filter model.FilterState `json:"filter"`
		Sort   model.SortKey     `json:"sort"`
	}{req.Filter, req.Sort})

	var (
		entry    SearchEntry
		hit      bool
		degraded bool
	)
	if s.cache != nil {
		entry, hit = s.cache.Get(key)
	}
	if !hit {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := s.provider.LoadListings(ctx)
		degraded = res.Degraded
		entry = SearchEntry{
			Listings:      SortListings(FilterListings(res.Data, req.Filter), req.Sort),
			TotalListings: len(res.Data),
		}
		if s.cache != nil && !degraded {
			s.cache.Set(key, entry)
		}
	}

	window := pagination.Paginate(len(entry.Listings), req.PageSize, req.Page)
	page := pagination.Slice(entry.Listings, window)

	return &SearchResult{
		Listings:      page,
		TotalResults:  len(entry.Listings),
		TotalListings: entry.TotalListings,
		ResultsText:   ResultsText(len(entry.Listings), entry.TotalListings),
		Window:        window,
		Degraded:      degraded,
	}, nil
}

// ResultsText 列表上方的結果數量說明
func ResultsText(count, total int) string {
	return fmt.Sprintf("Showing %d of %d services", count, total)
}

func (s *ListingService) Get(ctx context.Context, listingID int64) (*model.Listing, error) {
	res := s.provider.LoadListings(ctx)
	for i := range res.Data {
		if res.Data[i].ID == listingID {
			l := res.Data[i]
			return &l, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrListingNotFound, listingID)
}

/*
Package 取得加入購物車用的方案
packageID 為 0 時以 listing 的基本價格組成預設方案
錯誤:
  - ErrListingNotFound
  - ErrPackageNotFound
*/
func (s *ListingService) Package(ctx context.Context, listingID, packageID int64) (*model.Listing, *model.Package, error) {
	listing, err := s.Get(ctx, listingID)
	if err != nil {
		return nil, nil, err
	}

	if packageID == basePackageID {
		unit := listing.PricingUnit
		if unit == "" {
			unit = model.PricingUnitEvent
		}
		return listing, &model.Package{
			ID:        basePackageID,
			ListingID: listing.ID,
			Name:      "Standard Package",
			Unit:      unit,
			Price:     listing.BasePriceCents,
		}, nil
	}

	pkg, ok := listing.FindPackage(packageID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: listing %d package %d", ErrPackageNotFound, listingID, packageID)
	}
	return listing, &pkg, nil
}

func (s *ListingService) Categories(ctx context.Context) catalog.Result[[]model.Category] {
	return s.provider.LoadCategories(ctx)
}

// InvalidateSearchCache 目錄資料更新後呼叫
func (s *ListingService) InvalidateSearchCache() {
	if s.cache != nil {
		s.cache.Clear()
	}
}
