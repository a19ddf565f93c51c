package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/eventro/internal/api"
	"github.com/RoyceAzure/lab/eventro/internal/api/dto"
	"github.com/RoyceAzure/lab/eventro/internal/domain/model"
	"github.com/RoyceAzure/lab/eventro/internal/pkg/pagination"
	"github.com/RoyceAzure/lab/eventro/internal/service"
)

type ListingHandler struct {
	listingService service.IListingService
}

func NewListingHandler(listingService service.IListingService) *ListingHandler {
	if listingService == nil {
		panic("listing handler dependency listingService is nil")
	}
	return &ListingHandler{listingService: listingService}
}

// parseSearchRequest 未帶的條件維持 FilterState 預設值
func parseSearchRequest(r *http.Request) (service.SearchRequest, error) {
	q := r.URL.Query()
	f := model.NewFilterState()
	var err error

	f.Search = q.Get("search")
	f.Country = q.Get("country")
	f.State = q.Get("state")
	f.City = q.Get("city")
	if f.CategoryID, err = queryInt64(q, "category", 0); err != nil {
		return service.SearchRequest{}, err
	}
	if f.MinPrice, err = queryInt64(q, "min_price", 0); err != nil {
		return service.SearchRequest{}, err
	}
	if f.MaxPrice, err = queryInt64(q, "max_price", model.DefaultMaxPrice); err != nil {
		return service.SearchRequest{}, err
	}
	if f.Rating, err = queryFloat(q, "rating", 0); err != nil {
		return service.SearchRequest{}, err
	}
	if f.InstantBook, err = queryBool(q, "instant_book"); err != nil {
		return service.SearchRequest{}, err
	}

	page, err := queryInt(q, "page", 1)
	if err != nil {
		return service.SearchRequest{}, err
	}
	pageSize, err := queryInt(q, "page_size", pagination.DefaultPageSize)
	if err != nil {
		return service.SearchRequest{}, err
	}

	return service.SearchRequest{
		Filter:   f,
		Sort:     model.ParseSortKey(q.Get("sort")),
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (h *ListingHandler) Search(w http.ResponseWriter, r *http.Request) {
	req, err := parseSearchRequest(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	res, err := h.listingService.Search(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.SuccessJSON(w, dto.ConvertSearchResult(res), "")
}

func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	listing, err := h.listingService.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.SuccessJSON(w, dto.ConvertListing(*listing), "")
}

func (h *ListingHandler) Categories(w http.ResponseWriter, r *http.Request) {
	res := h.listingService.Categories(r.Context())
	api.SuccessJSON(w, dto.ListResponse[model.Category]{Items: res.Data, Degraded: res.Degraded}, "")
}
