package event

import "github.com/RoyceAzure/lab/eventro/internal/domain/model"

// AggregateID 為 session id
type CartItemAddedEvent struct {
	BaseEvent
	Item model.CartItem `json:"item"`
}

func (e *CartItemAddedEvent) Type() EventType {
	return CartItemAddedEventName
}

type CartItemRemovedEvent struct {
	BaseEvent
	ItemID string `json:"item_id"`
}

func (e *CartItemRemovedEvent) Type() EventType {
	return CartItemRemovedEventName
}

type CartItemUpdatedEvent struct {
	BaseEvent
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

func (e *CartItemUpdatedEvent) Type() EventType {
	return CartItemUpdatedEventName
}

type CartClearedEvent struct {
	BaseEvent
}

func (e *CartClearedEvent) Type() EventType {
	return CartClearedEventName
}
