package model

import (
	"time"

	domain "github.com/RoyceAzure/lab/eventro/internal/domain/model"
	"gorm.io/gorm"
)

type BaseModel struct {
	CreatedAt time.Time      `gorm:"not null;default:now()"`
	UpdatedAt time.Time      `gorm:"null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Order 訂單歷史投影，由 OrderPlaced 事件寫入
type Order struct {
	OrderID       string      `gorm:"primaryKey;type:varchar(64)" json:"order_id"`
	Reference     string      `gorm:"uniqueIndex;type:varchar(32);not null" json:"reference"`
	SessionID     string      `gorm:"index;type:varchar(128);not null" json:"session_id"`
	OrderItems    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items"`
	Subtotal      int64       `gorm:"not null" json:"subtotal"`
	Deposit       int64       `gorm:"not null" json:"deposit"`
	ProcessingFee int64       `gorm:"not null" json:"processing_fee"`
	TotalCharged  int64       `gorm:"not null" json:"total_charged"`
	ProcessedAt   time.Time   `gorm:"not null" json:"processed_at"`
	BaseModel
}

type OrderItem struct {
	OrderID      string `gorm:"primaryKey;type:varchar(64)" json:"order_id"`
	ItemID       string `gorm:"primaryKey;type:varchar(64)" json:"item_id"`
	ListingID    int64  `gorm:"not null;index" json:"listing_id"`
	PackageID    int64  `gorm:"not null" json:"package_id"`
	Title        string `json:"title"`
	PackageName  string `json:"package_name"`
	VendorName   string `json:"vendor_name"`
	PricePerUnit int64  `gorm:"not null" json:"price_per_unit"`
	Unit         string `json:"unit"`
	Quantity     int    `gorm:"not null" json:"quantity"`
	BaseModel
}

func FromDomainOrder(sessionID string, o *domain.Order) *Order {
	items := make([]OrderItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItem{
			OrderID:      o.ID,
			ItemID:       item.ID,
			ListingID:    item.ListingID,
			PackageID:    item.PackageID,
			Title:        item.Title,
			PackageName:  item.PackageName,
			VendorName:   item.VendorName,
			PricePerUnit: item.PricePerUnit,
			Unit:         string(item.Unit),
			Quantity:     item.Quantity,
		}
	}
	return &Order{
		OrderID:       o.ID,
		Reference:     o.Reference,
		SessionID:     sessionID,
		OrderItems:    items,
		Subtotal:      o.Subtotal,
		Deposit:       o.Deposit,
		ProcessingFee: o.ProcessingFee,
		TotalCharged:  o.TotalCharged,
		ProcessedAt:   o.ProcessedAt,
	}
}

func (o *Order) ToDomain() *domain.Order {
	items := make([]domain.CartItem, len(o.OrderItems))
	for i, item := range o.OrderItems {
		items[i] = domain.CartItem{
			ID:           item.ItemID,
			ListingID:    item.ListingID,
			PackageID:    item.PackageID,
			Title:        item.Title,
			PackageName:  item.PackageName,
			VendorName:   item.VendorName,
			PricePerUnit: item.PricePerUnit,
			Unit:         domain.PricingUnit(item.Unit),
			Quantity:     item.Quantity,
		}
	}
	return &domain.Order{
		ID:            o.OrderID,
		Reference:     o.Reference,
		Items:         items,
		Subtotal:      o.Subtotal,
		Deposit:       o.Deposit,
		ProcessingFee: o.ProcessingFee,
		TotalCharged:  o.TotalCharged,
		ProcessedAt:   o.ProcessedAt,
	}
}
