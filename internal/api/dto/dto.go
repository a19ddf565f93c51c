package dto

import (
	"time"

	"github.com/RoyceAzure/lab/eventro/internal/domain/model"
	"github.com/RoyceAzure/lab/eventro/internal/pkg/pagination"
	"github.com/RoyceAzure/lab/eventro/internal/pkg/pricing"
	"github.com/RoyceAzure/lab/eventro/internal/service"
)

// 購物車

type AddCartItemDTO struct {
	ListingID int64 `json:"listing_id"`
	PackageID int64 `json:"package_id"`
	Quantity  int   `json:"quantity"`
}

// UpdateCartItemDTO Quantity 與 Action 擇一，Action 為 increment 或 decrement
type UpdateCartItemDTO struct {
	Quantity *int   `json:"quantity"`
	Action   string `json:"action"`
}

const (
	ActionIncrement = "increment"
	ActionDecrement = "decrement"
)

type CartItemDTO struct {
	ID            string            `json:"id"`
	ListingID     int64             `json:"listing_id"`
	PackageID     int64             `json:"package_id"`
	Title         string            `json:"title"`
	PackageName   string            `json:"package_name"`
	VendorName    string            `json:"vendor_name"`
	VendorAvatar  string            `json:"vendor_avatar"`
	PricePerUnit  int64             `json:"price_per_unit"`
	Unit          model.PricingUnit `json:"unit"`
	Quantity      int               `json:"quantity"`
	LineTotal     int64             `json:"line_total"`
	LineTotalText string            `json:"line_total_text"`
	PriceUnitText string            `json:"price_unit_text"`
	AddedAt       time.Time         `json:"added_at"`
}

type CartDTO struct {
	Items         []CartItemDTO `json:"items"`
	ServicesCount int           `json:"services_count"`
	ItemCount     int           `json:"item_count"`
	Subtotal      int64         `json:"subtotal"`
	SubtotalText  string        `json:"subtotal_text"`
	Deposit       int64         `json:"deposit"`
	DepositText   string        `json:"deposit_text"`
	CanCheckout   bool          `json:"can_checkout"`
}

func ConvertCartItems(items []model.CartItem) []CartItemDTO {
	res := make([]CartItemDTO, len(items))
	for i, item := range items {
		res[i] = CartItemDTO{
			ID:            item.ID,
			ListingID:     item.ListingID,
			PackageID:     item.PackageID,
			Title:         item.Title,
			PackageName:   item.PackageName,
			VendorName:    item.VendorName,
			VendorAvatar:  item.VendorAvatar,
			PricePerUnit:  item.PricePerUnit,
			Unit:          item.Unit,
			Quantity:      item.Quantity,
			LineTotal:     item.LineTotal(),
			LineTotalText: pricing.FormatPrice(item.LineTotal(), ""),
			PriceUnitText: pricing.FormatPrice(item.PricePerUnit, "") + "/" + string(item.Unit),
			AddedAt:       item.AddedAt,
		}
	}
	return res
}

func ConvertCartSummary(summary service.CartSummary) CartDTO {
	return CartDTO{
		Items:         ConvertCartItems(summary.Items),
		ServicesCount: summary.ServicesCount,
		ItemCount:     summary.ItemCount,
		Subtotal:      summary.Subtotal,
		SubtotalText:  pricing.FormatPrice(summary.Subtotal, ""),
		Deposit:       summary.Deposit,
		DepositText:   pricing.FormatPrice(summary.Deposit, ""),
		CanCheckout:   summary.CanCheckout,
	}
}

// 結帳

type QuoteDTO struct {
	ItemCount         int    `json:"item_count"`
	Subtotal          int64  `json:"subtotal"`
	SubtotalText      string `json:"subtotal_text"`
	Deposit           int64  `json:"deposit"`
	DepositText       string `json:"deposit_text"`
	ProcessingFee     int64  `json:"processing_fee"`
	ProcessingFeeText string `json:"processing_fee_text"`
	TotalCharged      int64  `json:"total_charged"`
	TotalChargedText  string `json:"total_charged_text"`
}

type CheckoutDTO struct {
	Items []CartItemDTO `json:"items"`
	Quote QuoteDTO      `json:"quote"`
}

func ConvertQuote(q model.OrderQuote) QuoteDTO {
	return QuoteDTO{
		ItemCount:         q.ItemCount,
		Subtotal:          q.Subtotal,
		SubtotalText:      pricing.FormatPrice(q.Subtotal, ""),
		Deposit:           q.Deposit,
		DepositText:       pricing.FormatPrice(q.Deposit, ""),
		ProcessingFee:     q.ProcessingFee,
		ProcessingFeeText: pricing.FormatPrice(q.ProcessingFee, ""),
		TotalCharged:      q.TotalCharged,
		TotalChargedText:  pricing.FormatPrice(q.TotalCharged, ""),
	}
}

func ConvertCheckoutView(view *service.CheckoutView) CheckoutDTO {
	return CheckoutDTO{
		Items: ConvertCartItems(view.Items),
		Quote: ConvertQuote(view.Quote),
	}
}

type PaymentDTO struct {
	CardholderName string `json:"cardholder_name"`
	Email          string `json:"email"`
	CardNumber     string `json:"card_number"`
	Expiry         string `json:"expiry"`
	CVC            string `json:"cvc"`
	AcceptTerms    bool   `json:"accept_terms"`
}

func (p PaymentDTO) ToDetails() service.PaymentDetails {
	return service.PaymentDetails{
		CardholderName: p.CardholderName,
		Email:          p.Email,
		CardNumber:     p.CardNumber,
		Expiry:         p.Expiry,
		CVC:            p.CVC,
		AcceptTerms:    p.AcceptTerms,
	}
}

type OrderDTO struct {
	ID               string        `json:"id"`
	Reference        string        `json:"reference"`
	Items            []CartItemDTO `json:"items"`
	Subtotal         int64         `json:"subtotal"`
	Deposit          int64         `json:"deposit"`
	ProcessingFee    int64         `json:"processing_fee"`
	TotalCharged     int64         `json:"total_charged"`
	TotalChargedText string        `json:"total_charged_text"`
	ProcessedAt      time.Time     `json:"processed_at"`
}

func ConvertOrder(order *model.Order) OrderDTO {
	return OrderDTO{
		ID:               order.ID,
		Reference:        order.Reference,
		Items:            ConvertCartItems(order.Items),
		Subtotal:         order.Subtotal,
		Deposit:          order.Deposit,
		ProcessingFee:    order.ProcessingFee,
		TotalCharged:     order.TotalCharged,
		TotalChargedText: pricing.FormatPrice(order.TotalCharged, ""),
		ProcessedAt:      order.ProcessedAt,
	}
}

type OrderHistoryDTO struct {
	Orders     []OrderDTO            `json:"orders"`
	Pagination pagination.PageWindow `json:"pagination"`
}

// 訊息

type SendMessageDTO struct {
	Message       string `json:"message"`
	SimulateReply bool   `json:"simulate_reply"`
}

type MessageDTO struct {
	ID           int               `json:"id"`
	SenderID     int64             `json:"sender_id"`
	SenderName   string            `json:"sender_name"`
	SenderAvatar string            `json:"sender_avatar"`
	Message      string            `json:"message"`
	Timestamp    time.Time         `json:"timestamp"`
	TimeAgo      string            `json:"time_ago"`
	Type         model.MessageType `json:"type"`
}

func ConvertMessages(messages []model.Message, now time.Time) []MessageDTO {
	res := make([]MessageDTO, len(messages))
	for i, m := range messages {
		res[i] = ConvertMessage(m, now)
	}
	return res
}

func ConvertMessage(m model.Message, now time.Time) MessageDTO {
	return MessageDTO{
		ID:           m.ID,
		SenderID:     m.SenderID,
		SenderName:   m.SenderName,
		SenderAvatar: m.SenderAvatar,
		Message:      m.Message,
		Timestamp:    m.Timestamp,
		TimeAgo:      service.TimeAgo(now, m.Timestamp),
		Type:         m.Type,
	}
}

type ThreadDTO struct {
	ThreadID string       `json:"thread_id"`
	Messages []MessageDTO `json:"messages"`
}

// 目錄

type ListingDTO struct {
	model.Listing
	PriceText string `json:"price_text"`
}

type SearchResultDTO struct {
	Listings      []ListingDTO          `json:"listings"`
	TotalResults  int                   `json:"total_results"`
	TotalListings int                   `json:"total_listings"`
	ResultsText   string                `json:"results_text"`
	Pagination    pagination.PageWindow `json:"pagination"`
	Degraded      bool                  `json:"degraded"`
}

func ConvertListing(l model.Listing) ListingDTO {
	return ListingDTO{Listing: l, PriceText: pricing.FormatPrice(l.BasePriceCents, l.Currency)}
}

func ConvertSearchResult(res *service.SearchResult) SearchResultDTO {
	listings := make([]ListingDTO, len(res.Listings))
	for i, l := range res.Listings {
		listings[i] = ConvertListing(l)
	}
	return SearchResultDTO{
		Listings:      listings,
		TotalResults:  res.TotalResults,
		TotalListings: res.TotalListings,
		ResultsText:   res.ResultsText,
		Pagination:    res.Window,
		Degraded:      res.Degraded,
	}
}

// ListResponse 附帶是否使用內建資料
type ListResponse[T any] struct {
	Items    []T  `json:"items"`
	Degraded bool `json:"degraded"`
}
