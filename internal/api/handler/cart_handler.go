package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/eventro/internal/api"
	"github.com/RoyceAzure/lab/eventro/internal/api/dto"
	"github.com/RoyceAzure/lab/eventro/internal/api/middleware"
	"github.com/RoyceAzure/lab/eventro/internal/service"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	cartService    service.ICartService
	listingService service.IListingService
}

func NewCartHandler(cartService service.ICartService, listingService service.IListingService) *CartHandler {
	if cartService == nil {
		panic("cart handler dependency cartService is nil")
	}
	if listingService == nil {
		panic("cart handler dependency listingService is nil")
	}
	return &CartHandler{cartService: cartService, listingService: listingService}
}

// openCart 失敗時已寫入回應
func (h *CartHandler) openCart(w http.ResponseWriter, r *http.Request) (*service.CartStore, bool) {
	cart, err := h.cartService.Open(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return cart, true
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.openCart(w, r)
	if !ok {
		return
	}
	api.SuccessJSON(w, dto.ConvertCartSummary(cart.Summary()), "")
}

// AddItem 價格以目錄資料為準，不接受前端傳入
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req dto.AddCartItemDTO
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	listing, pkg, err := h.listingService.Package(r.Context(), req.ListingID, req.PackageID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	cart, ok := h.openCart(w, r)
	if !ok {
		return
	}
	if _, err := cart.Add(r.Context(), service.NewAddItemInput(listing, pkg, req.Quantity)); err != nil {
		writeError(w, r, err)
		return
	}
	api.CreatedJSON(w, dto.ConvertCartSummary(cart.Summary()), "")
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateCartItemDTO
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	cart, ok := h.openCart(w, r)
	if !ok {
		return
	}

	itemID := chi.URLParam(r, "itemID")
	var err error
	switch {
	case req.Quantity != nil:
		err = cart.UpdateQuantity(r.Context(), itemID, *req.Quantity)
	case req.Action == dto.ActionIncrement:
		err = cart.Increment(r.Context(), itemID)
	case req.Action == dto.ActionDecrement:
		err = cart.Decrement(r.Context(), itemID)
	default:
		badRequest(w, "quantity or action is required")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.SuccessJSON(w, dto.ConvertCartSummary(cart.Summary()), "")
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.openCart(w, r)
	if !ok {
		return
	}
	if err := cart.Remove(r.Context(), chi.URLParam(r, "itemID")); err != nil {
		writeError(w, r, err)
		return
	}
	api.SuccessJSON(w, dto.ConvertCartSummary(cart.Summary()), "")
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.openCart(w, r)
	if !ok {
		return
	}
	if err := cart.Clear(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	api.SuccessJSON(w, dto.ConvertCartSummary(cart.Summary()), "")
}
