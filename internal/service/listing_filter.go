package service

import (
	"sort"
	"strings"

	"github.com/RoyceAzure/lab/eventro/internal/domain/model"
)

/*
FilterListings 所有條件為 AND，零值條件不啟用
回傳新的 slice，保留輸入順序，不會修改輸入
*/
func FilterListings(listings []model.Listing, f model.FilterState) []model.Listing {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	result := make([]model.Listing, 0, len(listings))
	for _, l := range listings {
		if search != "" && !matchesSearch(l, search) {
			continue
		}
		if f.CategoryID != 0 && l.CategoryID != f.CategoryID {
			continue
		}
		if l.BasePriceCents < f.MinPrice || l.BasePriceCents > f.MaxPrice {
			continue
		}
		if f.Country != "" && l.Country != f.Country {
			continue
		}
		if f.State != "" && l.State != f.State {
			continue
		}
		if f.City != "" && l.City != f.City {
			continue
		}
		if f.Rating > 0 && l.Rating < f.Rating {
			continue
		}
		if f.InstantBook && !l.InstantBook {
			continue
		}
		result = append(result, l)
	}
	return result
}

func matchesSearch(l model.Listing, term string) bool {
	return strings.Contains(strings.ToLower(l.Title), term) ||
		strings.Contains(strings.ToLower(l.Category), term) ||
		strings.Contains(strings.ToLower(l.VendorName), term)
}

// SortListings stable sort，回傳排序後的新 slice
func SortListings(listings []model.Listing, key model.SortKey) []model.Listing {
	sorted := make([]model.Listing, len(listings))
	copy(sorted, listings)

	var less func(a, b model.Listing) bool
	switch key {
	case model.SortPriceLow:
		less = func(a, b model.Listing) bool { return a.BasePriceCents < b.BasePriceCents }
	case model.SortPriceHigh:
		less = func(a, b model.Listing) bool { return a.BasePriceCents > b.BasePriceCents }
	case model.SortRating:
		less = func(a, b model.Listing) bool { return a.Rating > b.Rating }
	default:
		less = func(a, b model.Listing) bool { return a.ID > b.ID }
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	return sorted
}
