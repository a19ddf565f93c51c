package handler

import (
	"net/http"
	"time"

	"github.com/RoyceAzure/lab/eventro/internal/api"
	"github.com/RoyceAzure/lab/eventro/internal/api/dto"
	"github.com/RoyceAzure/lab/eventro/internal/api/middleware"
	"github.com/RoyceAzure/lab/eventro/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type MessageHandler struct {
	messageService service.IMessageService
	now            func() time.Time
}

func NewMessageHandler(messageService service.IMessageService) *MessageHandler {
	if messageService == nil {
		panic("message handler dependency messageService is nil")
	}
	return &MessageHandler{messageService: messageService, now: time.Now}
}

func (h *MessageHandler) Thread(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")
	messages, err := h.messageService.Thread(r.Context(), middleware.GetSessionID(r.Context()), threadID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.SuccessJSON(w, dto.ThreadDTO{
		ThreadID: threadID,
		Messages: dto.ConvertMessages(messages, h.now()),
	}, "")
}

// Send 以目前使用者身分送出，simulate_reply 為 true 時背景排程對方回覆
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req dto.SendMessageDTO
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	sessionID := middleware.GetSessionID(r.Context())
	threadID := chi.URLParam(r, "threadID")
	msg, err := h.messageService.Send(r.Context(), sessionID, threadID, service.CurrentUser, req.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if req.SimulateReply {
		if err := h.messageService.ScheduleReply(sessionID, threadID); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("failed to schedule reply")
		}
	}
	api.CreatedJSON(w, dto.ConvertMessage(msg, h.now()), "")
}
