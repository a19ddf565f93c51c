package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Response 所有 api 回傳格式
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, res Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func SuccessJSON(w http.ResponseWriter, data any, message string) {
	if message == "" {
		message = "success"
	}
	writeJSON(w, http.StatusOK, Response{Code: http.StatusOK, Message: message, Data: data})
}

func CreatedJSON(w http.ResponseWriter, data any, message string) {
	if message == "" {
		message = "created"
	}
	writeJSON(w, http.StatusCreated, Response{Code: http.StatusCreated, Message: message, Data: data})
}

// ErrorJSON data 可為 nil，例如欄位驗證錯誤時放欄位資訊
func ErrorJSON(w http.ResponseWriter, status int, data any, message string) {
	if message == "" {
		message = http.StatusText(status)
	}
	writeJSON(w, status, Response{Code: status, Message: message, Data: data})
}
