package event

import (
	"time"

	"github.com/google/uuid"
)

type BaseEvent struct {
	EventID     string    `json:"event_id"`
	AggregateID string    `json:"aggregate_id"`
	CreatedAt   time.Time `json:"created_at"`
	EventType   EventType `json:"event_type"`
}

func NewBaseEvent(aggregateID string, eventType EventType) BaseEvent {
	return BaseEvent{
		EventID:     uuid.New().String(),
		AggregateID: aggregateID,
		CreatedAt:   time.Now().UTC(),
		EventType:   eventType,
	}
}

func (e *BaseEvent) GetID() string {
	return e.EventID
}

func (e *BaseEvent) GetAggregateID() string {
	return e.AggregateID
}

type EventType string

const (
	CartItemAddedEventName   EventType = "CartItemAdded"
	CartItemRemovedEventName EventType = "CartItemRemoved"
	CartItemUpdatedEventName EventType = "CartItemUpdated"
	CartClearedEventName     EventType = "CartCleared"
	OrderPlacedEventName     EventType = "OrderPlaced"
)

type Event interface {
	Type() EventType
	GetID() string
	GetAggregateID() string
}
