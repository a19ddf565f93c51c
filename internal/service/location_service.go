package service

import (
	"context"
	"strings"

	"github.com/RoyceAzure/lab/eventro/internal/domain/model"
	"github.com/RoyceAzure/lab/eventro/internal/infra/catalog"
)

type ILocationService interface {
	Countries(ctx context.Context) ([]model.Country, bool)
	States(ctx context.Context, countryID int64) ([]model.State, bool)
	Cities(ctx context.Context, stateID int64) ([]model.City, bool)
	CityNamesByState(ctx context.Context, stateName string) []string
}

// LocationService 國家 -> 州 -> 城市 下拉選單資料
// 第二個回傳值代表是否使用內建資料
type LocationService struct {
	provider catalog.IProvider
}

var _ ILocationService = (*LocationService)(nil)

func NewLocationService(provider catalog.IProvider) *LocationService {
	if provider == nil {
		panic("location service dependency provider is nil")
	}
	return &LocationService{provider: provider}
}

func (s *LocationService) Countries(ctx context.Context) ([]model.Country, bool) {
	res := s.provider.LoadLocations(ctx)
	return res.Data.Countries, res.Degraded
}

func (s *LocationService) States(ctx context.Context, countryID int64) ([]model.State, bool) {
	res := s.provider.LoadLocations(ctx)
	states := make([]model.State, 0)
	for _, st := range res.Data.States {
		if st.CountryID == countryID {
			states = append(states, st)
		}
	}
	return states, res.Degraded
}

func (s *LocationService) Cities(ctx context.Context, stateID int64) ([]model.City, bool) {
	res := s.provider.LoadLocations(ctx)
	return citiesOf(res.Data, stateID), res.Degraded
}

// CityNamesByState 篩選列依州名稱列出城市，州名不分大小寫，找不到回傳空 slice
func (s *LocationService) CityNamesByState(ctx context.Context, stateName string) []string {
	res := s.provider.LoadLocations(ctx)
	names := make([]string, 0)
	for _, st := range res.Data.States {
		if !strings.EqualFold(st.Name, strings.TrimSpace(stateName)) {
			continue
		}
		for _, c := range citiesOf(res.Data, st.ID) {
			names = append(names, c.Name)
		}
		break
	}
	return names
}

func citiesOf(locations model.Locations, stateID int64) []model.City {
	cities := make([]model.City, 0)
	for _, c := range locations.Cities {
		if c.StateID == stateID {
			cities = append(cities, c)
		}
	}
	return cities
}
