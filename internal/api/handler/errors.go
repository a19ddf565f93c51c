package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/RoyceAzure/lab/eventro/internal/api"
	"github.com/RoyceAzure/lab/eventro/internal/infra/payment"
	"github.com/RoyceAzure/lab/eventro/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/eventro/internal/infra/repository/session_repo"
	"github.com/RoyceAzure/lab/eventro/internal/service"
	"github.com/rs/zerolog"
)

type HandlerError error

var ErrBadRequest HandlerError = errors.New("bad request")

// statusOf 將 service 錯誤對應到 http status
func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidPayment),
		errors.Is(err, service.ErrInvalidItem),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, session_repo.ErrEmptySession):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrListingNotFound),
		errors.Is(err, service.ErrPackageNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, db.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, payment.ErrDeclined):
		return http.StatusPaymentRequired
	case errors.Is(err, payment.ErrTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, service.ErrServiceStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError 5xx 不回傳內部錯誤內容
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		api.ErrorJSON(w, status, validationErr.Fields, validationErr.Error())
		return
	}

	if status >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("url", r.URL.String()).
			Msg("request failed")
		api.ErrorJSON(w, status, nil, "")
		return
	}
	api.ErrorJSON(w, status, nil, err.Error())
}

func badRequest(w http.ResponseWriter, msg string) {
	api.ErrorJSON(w, http.StatusBadRequest, nil, msg)
}
