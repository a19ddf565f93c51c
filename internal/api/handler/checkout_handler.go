package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/eventro/internal/api"
	"github.com/RoyceAzure/lab/eventro/internal/api/dto"
	"github.com/RoyceAzure/lab/eventro/internal/api/middleware"
	"github.com/RoyceAzure/lab/eventro/internal/pkg/pagination"
	"github.com/RoyceAzure/lab/eventro/internal/service"
	"github.com/go-chi/chi/v5"
)

type CheckoutHandler struct {
	checkoutService service.ICheckoutService
	historyService  service.IOrderHistoryService
}

// historyService 可為 nil，沒有資料庫時不提供訂單歷史
func NewCheckoutHandler(checkoutService service.ICheckoutService, historyService service.IOrderHistoryService) *CheckoutHandler {
	if checkoutService == nil {
		panic("checkout handler dependency checkoutService is nil")
	}
	return &CheckoutHandler{checkoutService: checkoutService, historyService: historyService}
}

func (h *CheckoutHandler) HasHistory() bool {
	return h.historyService != nil
}

// Begin 由購物車建立結帳快照
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	view, err := h.checkoutService.Begin(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.CreatedJSON(w, dto.ConvertCheckoutView(view), "")
}

func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	view, err := h.checkoutService.Quote(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.SuccessJSON(w, dto.ConvertCheckoutView(view), "")
}

func (h *CheckoutHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentDTO
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	order, err := h.checkoutService.Checkout(r.Context(), middleware.GetSessionID(r.Context()), req.ToDetails())
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.CreatedJSON(w, dto.ConvertOrder(order), "order placed")
}

func (h *CheckoutHandler) LastOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.checkoutService.LastOrder(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.SuccessJSON(w, dto.ConvertOrder(order), "")
}

func (h *CheckoutHandler) History(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := queryInt(q, "page", 1)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	pageSize, err := queryInt(q, "page_size", pagination.DefaultPageSize)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	res, err := h.historyService.History(r.Context(), middleware.GetSessionID(r.Context()), page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	orders := make([]dto.OrderDTO, len(res.Orders))
	for i := range res.Orders {
		orders[i] = dto.ConvertOrder(&res.Orders[i])
	}
	api.SuccessJSON(w, dto.OrderHistoryDTO{Orders: orders, Pagination: res.Window}, "")
}

func (h *CheckoutHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.historyService.Get(r.Context(), chi.URLParam(r, "reference"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.SuccessJSON(w, dto.ConvertOrder(order), "")
}
