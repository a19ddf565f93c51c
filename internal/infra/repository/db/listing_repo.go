package db

import (
	"context"

	domain "github.com/RoyceAzure/lab/eventro/internal/domain/model"
	"gorm.io/gorm"
)

// ListingRepo 資料庫版本的目錄來源，實作 catalog.Source
type ListingRepo struct {
	db *DbDao
}

func NewListingRepo(db *DbDao) *ListingRepo {
	if db == nil {
		panic("listing repo dependency db is nil")
	}
	return &ListingRepo{db: db}
}

func (r *ListingRepo) Listings(ctx context.Context) ([]domain.Listing, error) {
	var listings []domain.Listing
	err := r.db.WithContext(ctx).Preload("Packages").Order("id ASC").Find(&listings).Error
	return listings, err
}

func (r *ListingRepo) Categories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.db.WithContext(ctx).Order("id ASC").Find(&categories).Error
	return categories, err
}

func (r *ListingRepo) Locations(ctx context.Context) (domain.Locations, error) {
	var locations domain.Locations
	tx := r.db.WithContext(ctx)
	if err := tx.Order("id ASC").Find(&locations.Countries).Error; err != nil {
		return domain.Locations{}, err
	}
	if err := tx.Order("id ASC").Find(&locations.States).Error; err != nil {
		return domain.Locations{}, err
	}
	if err := tx.Order("id ASC").Find(&locations.Cities).Error; err != nil {
		return domain.Locations{}, err
	}
	return locations, nil
}

// SaveListings 匯入目錄資料，已存在的 id 覆寫
func (r *ListingRepo) SaveListings(ctx context.Context, listings []domain.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(&listings).Error
}

func (r *ListingRepo) SaveCategories(ctx context.Context, categories []domain.Category) error {
	if len(categories) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(&categories).Error
}

// SaveLocations 依國家 -> 州 -> 城市順序寫入
func (r *ListingRepo) SaveLocations(ctx context.Context, locations domain.Locations) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(locations.Countries) > 0 {
			if err := tx.Save(&locations.Countries).Error; err != nil {
				return err
			}
		}
		if len(locations.States) > 0 {
			if err := tx.Save(&locations.States).Error; err != nil {
				return err
			}
		}
		if len(locations.Cities) > 0 {
			if err := tx.Save(&locations.Cities).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
