package model

import "time"

// CartItem 同一個 (ListingID, PackageID) 在購物車中只會有一筆
type CartItem struct {
	ID           string      `json:"id"`
	ListingID    int64       `json:"listingId"`
	PackageID    int64       `json:"packageId"`
	Title        string      `json:"title"`
	PackageName  string      `json:"packageName"`
	VendorName   string      `json:"vendorName"`
	VendorAvatar string      `json:"vendorAvatar"`
	PricePerUnit int64       `json:"pricePerUnit"`
	Unit         PricingUnit `json:"unit"`
	Quantity     int         `json:"quantity"`
	AddedAt      time.Time   `json:"addedAt"`
}

func (i CartItem) LineTotal() int64 {
	return i.PricePerUnit * int64(i.Quantity)
}

// Cart 保留加入順序
type Cart struct {
	Items []CartItem
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
