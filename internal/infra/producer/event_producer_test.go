package producer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/RoyceAzure/lab/eventro/internal/domain/model"
	"github.com/RoyceAzure/lab/eventro/internal/domain/model/event"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProducer struct {
	mock.Mock
}

func (m *mockProducer) Produce(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockProducer) Close() error {
	return m.Called().Error(0)
}

func TestPublishOrderPlaced(t *testing.T) {
	mp := new(mockProducer)
	var captured []kafka.Message
	mp.On("Produce", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).([]kafka.Message)
	}).Return(nil)

	evt := &event.OrderPlacedEvent{
		BaseEvent: event.NewBaseEvent("session-1", event.OrderPlacedEventName),
		SessionID: "session-1",
		Order:     model.Order{ID: "o1", Reference: "EH-2026-000001", TotalCharged: 155000},
	}
	require.NoError(t, NewEventProducer(mp).Publish(context.Background(), evt))

	require.Len(t, captured, 1)
	assert.Equal(t, "session-1", string(captured[0].Key))
	assert.Equal(t, event.OrderPlacedEventName, EventTypeOf(captured[0]))

	var decoded event.OrderPlacedEvent
	require.NoError(t, json.Unmarshal(captured[0].Value, &decoded))
	assert.Equal(t, "EH-2026-000001", decoded.Order.Reference)
	assert.Equal(t, evt.EventID, decoded.EventID)
	mp.AssertExpectations(t)
}

func TestPublishError(t *testing.T) {
	mp := new(mockProducer)
	mp.On("Produce", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	evt := &event.CartClearedEvent{BaseEvent: event.NewBaseEvent("s", event.CartClearedEventName)}
	err := NewEventProducer(mp).Publish(context.Background(), evt)
	assert.EqualError(t, err, "broker down")
}

func TestEventTypeOfMissingHeader(t *testing.T) {
	assert.Equal(t, event.EventType(""), EventTypeOf(kafka.Message{}))
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{Topic: "t"}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(Config{Brokers: []string{"localhost:9092"}}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrInvalidConfig)

	p, err := New(Config{Brokers: []string{"localhost:9092"}, Topic: "eventro.order.events"}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.Produce(context.Background(), kafka.Message{Value: []byte("x")}), ErrProducerClosed)
}
