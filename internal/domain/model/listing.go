package model

type PricingUnit string

const (
	PricingUnitHourly PricingUnit = "hourly"
	PricingUnitDaily  PricingUnit = "daily"
	PricingUnitEvent  PricingUnit = "event"
)

// Listing 載入後不可變
type Listing struct {
	ID             int64       `json:"id" gorm:"primaryKey"`
	Title          string      `json:"title" gorm:"not null"`
	CategoryID     int64       `json:"service_category_id" gorm:"column:service_category_id;index"`
	Category       string      `json:"category"`
	VendorID       int64       `json:"vendor_id"`
	VendorName     string      `json:"vendor_name"`
	VendorAvatar   string      `json:"vendor_avatar,omitempty"`
	Country        string      `json:"country"`
	State          string      `json:"state" gorm:"index"`
	City           string      `json:"city"`
	BasePriceCents int64       `json:"base_price_cents"`
	Currency       string      `json:"currency"`
	InstantBook    bool        `json:"instant_book"`
	Rating         float64     `json:"rating"`
	ReviewsCount   int         `json:"reviews_count"`
	Photo          string      `json:"photo"`
	Featured       bool        `json:"featured"`
	PricingUnit    PricingUnit `json:"pricing_unit,omitempty"`
	Packages       []Package   `json:"packages,omitempty" gorm:"foreignKey:ListingID"`
}

// FindPackage 依 id 找出方案
func (l *Listing) FindPackage(packageID int64) (Package, bool) {
	for _, p := range l.Packages {
		if p.ID == packageID {
			return p, true
		}
	}
	return Package{}, false
}

type Package struct {
	ID        int64       `json:"id" gorm:"primaryKey"`
	ListingID int64       `json:"listing_id,omitempty" gorm:"index"`
	Name      string      `json:"name"`
	Unit      PricingUnit `json:"unit"`
	Price     int64       `json:"price"`
	Includes  []string    `json:"includes,omitempty" gorm:"serializer:json"`
}

type Category struct {
	ID   int64  `json:"id" gorm:"primaryKey"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Icon string `json:"icon,omitempty"`
}
