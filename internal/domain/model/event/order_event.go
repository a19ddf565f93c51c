package event

import "github.com/RoyceAzure/lab/eventro/internal/domain/model"

type OrderPlacedEvent struct {
	BaseEvent
	SessionID string      `json:"session_id"`
	Order     model.Order `json:"order"`
}

func (e *OrderPlacedEvent) Type() EventType {
	return OrderPlacedEventName
}
