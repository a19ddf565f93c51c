package service

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/RoyceAzure/lab/eventro/internal/domain/model"
	"github.com/RoyceAzure/lab/eventro/internal/infra/catalog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSource 回傳內建資料並記錄呼叫次數
type countingSource struct {
	listingCalls atomic.Int32
}

func (s *countingSource) Listings(ctx context.Context) ([]model.Listing, error) {
	s.listingCalls.Add(1)
	return catalog.FallbackListings(), nil
}

func (s *countingSource) Categories(ctx context.Context) ([]model.Category, error) {
	return catalog.FallbackCategories(), nil
}

func (s *countingSource) Locations(ctx context.Context) (model.Locations, error) {
	return catalog.FallbackLocations(), nil
}

func newTestListingService(t *testing.T, source catalog.Source) *ListingService {
	t.Helper()
	searchCache := NewSearchCache(100, zerolog.Nop())
	t.Cleanup(searchCache.Stop)
	return NewListingService(catalog.NewProvider(source, zerolog.Nop()), searchCache, zerolog.Nop())
}

func TestSearchResultsText(t *testing.T) {
	service := newTestListingService(t, &countingSource{})

	filter := model.NewFilterState()
	filter.InstantBook = true
	res, err := service.Search(context.Background(), SearchRequest{Filter: filter})
	require.NoError(t, err)

	assert.False(t, res.Degraded)
	assert.Equal(t, 3, res.TotalResults)
	assert.Equal(t, 6, res.TotalListings)
	assert.Equal(t, "Showing 3 of 6 services", res.ResultsText)
	assert.Equal(t, []int64{5, 3, 1}, listingIDs(res.Listings))
	assert.False(t, res.Window.Show)
}

func TestSearchPagination(t *testing.T) {
	service := newTestListingService(t, &countingSource{})

	res, err := service.Search(context.Background(), SearchRequest{
		Filter:   model.NewFilterState(),
		Sort:     model.SortPriceLow,
		Page:     2,
		PageSize: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, res.TotalResults)
	assert.Equal(t, []int64{5, 3}, listingIDs(res.Listings))
	assert.Equal(t, 2, res.Window.TotalPages)
	assert.Equal(t, 2, res.Window.CurrentPage)
	assert.True(t, res.Window.HasPrev)
	assert.False(t, res.Window.HasNext)

	// 超出範圍的頁碼會被限制在最後一頁
	res, err = service.Search(context.Background(), SearchRequest{
		Filter:   model.NewFilterState(),
		Sort:     model.SortPriceLow,
		Page:     9,
		PageSize: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Window.CurrentPage)
	assert.Equal(t, []int64{5, 3}, listingIDs(res.Listings))
}

func TestSearchUsesCache(t *testing.T) {
	source := &countingSource{}
	service := newTestListingService(t, source)
	ctx := context.Background()

	req := SearchRequest{Filter: model.NewFilterState(), Sort: model.SortRating}
	first, err := service.Search(ctx, req)
	require.NoError(t, err)

	// 頁碼不影響快取 key
	req.Page = 2
	second, err := service.Search(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int32(1), source.listingCalls.Load())
	assert.Equal(t, listingIDs(first.Listings), listingIDs(second.Listings))

	// 大小寫與前後空白不影響快取 key
	req.Filter.Search = "  SOUND "
	_, err = service.Search(ctx, req)
	require.NoError(t, err)
	req.Filter.Search = "sound"
	_, err = service.Search(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int32(2), source.listingCalls.Load())

	service.InvalidateSearchCache()
	_, err = service.Search(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int32(3), source.listingCalls.Load())
}

func TestSearchDegraded(t *testing.T) {
	service := newTestListingService(t, nil)

	res, err := service.Search(context.Background(), SearchRequest{Filter: model.NewFilterState()})
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Equal(t, 6, res.TotalResults)

	// 內建資料不寫入快取，所以仍是 degraded
	res, err = service.Search(context.Background(), SearchRequest{Filter: model.NewFilterState()})
	require.NoError(t, err)
	assert.True(t, res.Degraded)
}

func TestSearchCanceledContext(t *testing.T) {
	service := newTestListingService(t, &countingSource{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Search(ctx, SearchRequest{Filter: model.NewFilterState()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetListing(t *testing.T) {
	service := NewListingService(catalog.NewProvider(nil, zerolog.Nop()), nil, zerolog.Nop())
	ctx := context.Background()

	l, err := service.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Premium Catering Services", l.Title)

	_, err = service.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestListingPackage(t *testing.T) {
	service := NewListingService(catalog.NewProvider(nil, zerolog.Nop()), nil, zerolog.Nop())
	ctx := context.Background()

	listing, pkg, err := service.Package(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), listing.ID)
	assert.Equal(t, "Premium Package (8 hrs)", pkg.Name)
	assert.Equal(t, int64(250000), pkg.Price)

	_, _, err = service.Package(ctx, 1, 99)
	assert.ErrorIs(t, err, ErrPackageNotFound)

	_, _, err = service.Package(ctx, 99, 1)
	assert.ErrorIs(t, err, ErrListingNotFound)

	_, base, err := service.Package(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(200000), base.Price)
	assert.Equal(t, model.PricingUnitEvent, base.Unit)

	in := NewAddItemInput(listing, pkg, 2)
	assert.Equal(t, int64(250000), in.PricePerUnit)
	assert.Equal(t, "SoundWave Productions", in.VendorName)
	assert.Equal(t, 2, in.Quantity)
}

func TestCategories(t *testing.T) {
	service := NewListingService(catalog.NewProvider(nil, zerolog.Nop()), nil, zerolog.Nop())
	res := service.Categories(context.Background())
	assert.True(t, res.Degraded)
	assert.Len(t, res.Data, 13)
}
