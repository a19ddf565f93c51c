package catalog

import (
	"context"

	"github.com/RoyceAzure/lab/eventro/internal/domain/model"
	"github.com/RoyceAzure/lab/eventro/internal/pkg/util"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Result Degraded 為 true 代表使用內建資料，Err 為主要來源的錯誤
type Result[T any] struct {
	Data     T
	Degraded bool
	Err      error
}

type Snapshot struct {
	Listings   Result[[]model.Listing]
	Categories Result[[]model.Category]
	Locations  Result[model.Locations]
}

func (s Snapshot) Degraded() bool {
	return s.Listings.Degraded || s.Categories.Degraded || s.Locations.Degraded
}

type IProvider interface {
	LoadListings(ctx context.Context) Result[[]model.Listing]
	LoadCategories(ctx context.Context) Result[[]model.Category]
	LoadLocations(ctx context.Context) Result[model.Locations]
	LoadAll(ctx context.Context) Snapshot
}

// Provider 主要來源失敗、解析失敗或沒有資料時一律改用內建資料，不回傳錯誤
type Provider struct {
	primary Source
	logger  zerolog.Logger
}

var _ IProvider = (*Provider)(nil)

// primary 可為 nil，此時永遠使用內建資料
func NewProvider(primary Source, logger zerolog.Logger) *Provider {
	if util.IsNil(primary) {
		primary = nil
	}
	return &Provider{primary: primary, logger: logger}
}

func (p *Provider) LoadListings(ctx context.Context) Result[[]model.Listing] {
	if p.primary == nil {
		return Result[[]model.Listing]{Data: FallbackListings(), Degraded: true, Err: ErrNoSource}
	}
	listings, err := p.primary.Listings(ctx)
	if err == nil && len(listings) == 0 {
		err = ErrEmptyData
	}
	if err != nil {
		p.logger.Warn().Err(err).Msg("failed to load listings, use fallback data")
		return Result[[]model.Listing]{Data: FallbackListings(), Degraded: true, Err: err}
	}
	return Result[[]model.Listing]{Data: listings}
}

func (p *Provider) LoadCategories(ctx context.Context) Result[[]model.Category] {
	if p.primary == nil {
		return Result[[]model.Category]{Data: FallbackCategories(), Degraded: true, Err: ErrNoSource}
	}
	categories, err := p.primary.Categories(ctx)
	if err == nil && len(categories) == 0 {
		err = ErrEmptyData
	}
	if err != nil {
		p.logger.Warn().Err(err).Msg("failed to load categories, use fallback data")
		return Result[[]model.Category]{Data: FallbackCategories(), Degraded: true, Err: err}
	}
	return Result[[]model.Category]{Data: categories}
}

func (p *Provider) LoadLocations(ctx context.Context) Result[model.Locations] {
	if p.primary == nil {
		return Result[model.Locations]{Data: FallbackLocations(), Degraded: true, Err: ErrNoSource}
	}
	locations, err := p.primary.Locations(ctx)
	if err == nil && len(locations.Countries) == 0 {
		err = ErrEmptyData
	}
	if err != nil {
		p.logger.Warn().Err(err).Msg("failed to load locations, use fallback data")
		return Result[model.Locations]{Data: FallbackLocations(), Degraded: true, Err: err}
	}
	return Result[model.Locations]{Data: locations}
}

// LoadAll 三種資料同時載入，各自獨立 fallback
func (p *Provider) LoadAll(ctx context.Context) Snapshot {
	var snapshot Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snapshot.Listings = p.LoadListings(gctx)
		return nil
	})
	g.Go(func() error {
		snapshot.Categories = p.LoadCategories(gctx)
		return nil
	})
	g.Go(func() error {
		snapshot.Locations = p.LoadLocations(gctx)
		return nil
	})
	_ = g.Wait()
	return snapshot
}
