package handler

import (
	"net/http"
	"strings"

	"github.com/RoyceAzure/lab/eventro/internal/api"
	"github.com/RoyceAzure/lab/eventro/internal/api/dto"
	"github.com/RoyceAzure/lab/eventro/internal/domain/model"
	"github.com/RoyceAzure/lab/eventro/internal/service"
)

type LocationHandler struct {
	locationService service.ILocationService
}

func NewLocationHandler(locationService service.ILocationService) *LocationHandler {
	if locationService == nil {
		panic("location handler dependency locationService is nil")
	}
	return &LocationHandler{locationService: locationService}
}

func (h *LocationHandler) Countries(w http.ResponseWriter, r *http.Request) {
	countries, degraded := h.locationService.Countries(r.Context())
	api.SuccessJSON(w, dto.ListResponse[model.Country]{Items: countries, Degraded: degraded}, "")
}

func (h *LocationHandler) States(w http.ResponseWriter, r *http.Request) {
	countryID, err := pathInt64(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	states, degraded := h.locationService.States(r.Context(), countryID)
	api.SuccessJSON(w, dto.ListResponse[model.State]{Items: states, Degraded: degraded}, "")
}

func (h *LocationHandler) Cities(w http.ResponseWriter, r *http.Request) {
	stateID, err := pathInt64(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	cities, degraded := h.locationService.Cities(r.Context(), stateID)
	api.SuccessJSON(w, dto.ListResponse[model.City]{Items: cities, Degraded: degraded}, "")
}

// CityNames 篩選列用 ?state=<州名> 取城市名稱
func (h *LocationHandler) CityNames(w http.ResponseWriter, r *http.Request) {
	state := strings.TrimSpace(r.URL.Query().Get("state"))
	if state == "" {
		badRequest(w, "state is required")
		return
	}
	api.SuccessJSON(w, h.locationService.CityNamesByState(r.Context(), state), "")
}
