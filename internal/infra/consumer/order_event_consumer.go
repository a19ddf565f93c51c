package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/RoyceAzure/lab/eventro/internal/domain/model"
	"github.com/RoyceAzure/lab/eventro/internal/domain/model/event"
	"github.com/RoyceAzure/lab/eventro/internal/infra/producer"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// topic: eventro.order.events
// key: session id
func NewOrderEventConsumer(reader Reader, handler EventHandler, logger zerolog.Logger) IBaseConsumer {
	return newBaseConsumer(reader, transformOrderEvent, handler, logger)
}

func transformOrderEvent(msg kafka.Message) (event.Event, error) {
	eventType := producer.EventTypeOf(msg)
	switch eventType {
	case event.OrderPlacedEventName:
		evt := &event.OrderPlacedEvent{}
		if err := json.Unmarshal(msg.Value, evt); err != nil {
			return nil, err
		}
		return evt, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventFormat, eventType)
	}
}

type OrderRecorder interface {
	RecordOrder(ctx context.Context, sessionID string, order *model.Order) error
}

// OrderProjectionHandler 把 OrderPlaced 寫入訂單歷史
type OrderProjectionHandler struct {
	recorder OrderRecorder
}

var _ EventHandler = (*OrderProjectionHandler)(nil)

func NewOrderProjectionHandler(recorder OrderRecorder) *OrderProjectionHandler {
	if recorder == nil {
		panic("order projection handler dependency recorder is nil")
	}
	return &OrderProjectionHandler{recorder: recorder}
}

func (h *OrderProjectionHandler) HandleEvent(ctx context.Context, evt event.Event) error {
	switch e := evt.(type) {
	case *event.OrderPlacedEvent:
		return h.recorder.RecordOrder(ctx, e.SessionID, &e.Order)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownEventFormat, evt.Type())
	}
}
