package producer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/RoyceAzure/lab/eventro/internal/domain/model/event"
	"github.com/segmentio/kafka-go"
)

const EventTypeHeader = "event_type"

// EventPublisher service 層只依賴這個介面
type EventPublisher interface {
	Publish(ctx context.Context, evts ...event.Event) error
}

// EventProducer 事件以 JSON 寫入，key 為 aggregate id 確保同一 session 進同一分區
type EventProducer struct {
	producer Producer
}

var _ EventPublisher = (*EventProducer)(nil)

func NewEventProducer(producer Producer) *EventProducer {
	if producer == nil {
		panic("event producer dependency producer is nil")
	}
	return &EventProducer{producer: producer}
}

func (p *EventProducer) Publish(ctx context.Context, evts ...event.Event) error {
	msgs := make([]kafka.Message, 0, len(evts))
	for _, evt := range evts {
		msg, err := ConvertToMessage(evt)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return p.producer.Produce(ctx, msgs...)
}

func ConvertToMessage(evt event.Event) (kafka.Message, error) {
	value, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal event %s: %w", evt.Type(), err)
	}
	return kafka.Message{
		Key:   []byte(evt.GetAggregateID()),
		Value: value,
		Headers: []kafka.Header{
			{
				Key:   EventTypeHeader,
				Value: []byte(evt.Type()),
			},
		},
	}, nil
}

// EventTypeOf 從 header 取出事件類型
func EventTypeOf(msg kafka.Message) event.EventType {
	for _, h := range msg.Headers {
		if h.Key == EventTypeHeader {
			return event.EventType(h.Value)
		}
	}
	return ""
}
