package consumer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/eventro/internal/domain/model"
	"github.com/RoyceAzure/lab/eventro/internal/domain/model/event"
	"github.com/RoyceAzure/lab/eventro/internal/infra/producer"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	msgs      chan kafka.Message
	mu        sync.Mutex
	committed []kafka.Message
	closed    bool
}

func newFakeReader() *fakeReader {
	return &fakeReader{msgs: make(chan kafka.Message, 10)}
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	case msg := <-r.msgs:
		return msg, nil
	}
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeReader) committedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

type fakeRecorder struct {
	mu     sync.Mutex
	orders map[string]model.Order
	err    error
	// 前 failures 次呼叫回傳錯誤
	failures int
	calls    int
}

func (f *fakeRecorder) RecordOrder(ctx context.Context, sessionID string, order *model.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	if f.calls <= f.failures {
		return errors.New("temporary failure")
	}
	f.orders[sessionID] = *order
	return nil
}

func (f *fakeRecorder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

func orderPlacedMessage(t *testing.T, sessionID, ref string) kafka.Message {
	evt := &event.OrderPlacedEvent{
		BaseEvent: event.NewBaseEvent(sessionID, event.OrderPlacedEventName),
		SessionID: sessionID,
		Order:     model.Order{ID: ref, Reference: ref, TotalCharged: 155000},
	}
	msg, err := producer.ConvertToMessage(evt)
	require.NoError(t, err)
	return msg
}

func TestOrderEventConsumerProjectsOrders(t *testing.T) {
	reader := newFakeReader()
	recorder := &fakeRecorder{orders: map[string]model.Order{}}
	c := NewOrderEventConsumer(reader, NewOrderProjectionHandler(recorder), zerolog.Nop())

	require.NoError(t, c.Start(context.Background()))
	assert.ErrorIs(t, c.Start(context.Background()), ErrConsumerStarted)

	reader.msgs <- orderPlacedMessage(t, "s1", "EH-2026-000001")
	reader.msgs <- kafka.Message{Value: []byte("garbage")}
	reader.msgs <- orderPlacedMessage(t, "s2", "EH-2026-000002")

	assert.Eventually(t, func() bool {
		return recorder.count() == 2 && reader.committedCount() == 3
	}, time.Second, 10*time.Millisecond)

	c.Stop()
	assert.True(t, reader.closed)
	assert.Equal(t, "EH-2026-000001", recorder.orders["s1"].Reference)
	assert.ErrorIs(t, c.Start(context.Background()), ErrConsumerClosed)
}

func TestOrderEventConsumerKeepsOffsetOnFailure(t *testing.T) {
	reader := newFakeReader()
	recorder := &fakeRecorder{orders: map[string]model.Order{}, err: errors.New("db down")}
	c := NewOrderEventConsumer(reader, NewOrderProjectionHandler(recorder), zerolog.Nop())
	require.NoError(t, c.Start(context.Background()))

	reader.msgs <- orderPlacedMessage(t, "s1", "EH-2026-000001")
	assert.Eventually(t, func() bool { return len(reader.msgs) == 0 }, time.Second, 10*time.Millisecond)
	// 給 handler 一點時間執行
	time.Sleep(50 * time.Millisecond)

	c.Stop()
	assert.Equal(t, 0, reader.committedCount())
}

func TestOrderEventConsumerRetriesBeforeNextMessage(t *testing.T) {
	reader := newFakeReader()
	recorder := &fakeRecorder{orders: map[string]model.Order{}, failures: 1}
	c := newBaseConsumer(reader, transformOrderEvent, NewOrderProjectionHandler(recorder), zerolog.Nop())
	c.retryDelay = 5 * time.Millisecond
	require.NoError(t, c.Start(context.Background()))
	defer c.Stop()

	first := orderPlacedMessage(t, "s1", "EH-2026-000001")
	first.Offset = 10
	second := orderPlacedMessage(t, "s2", "EH-2026-000002")
	second.Offset = 11
	reader.msgs <- first
	reader.msgs <- second

	assert.Eventually(t, func() bool {
		return recorder.count() == 2 && reader.committedCount() == 2
	}, time.Second, 10*time.Millisecond)

	reader.mu.Lock()
	defer reader.mu.Unlock()
	// 失敗的那筆重試成功後才 commit，順序不變
	assert.Equal(t, "EH-2026-000001", recorder.orders["s1"].Reference)
	assert.Equal(t, []int64{10, 11}, []int64{reader.committed[0].Offset, reader.committed[1].Offset})
}

func TestTransformOrderEventUnknownType(t *testing.T) {
	_, err := transformOrderEvent(kafka.Message{
		Headers: []kafka.Header{{Key: producer.EventTypeHeader, Value: []byte(event.CartClearedEventName)}},
		Value:   []byte("{}"),
	})
	assert.ErrorIs(t, err, ErrUnknownEventFormat)
}

func TestStopWithoutStart(t *testing.T) {
	reader := newFakeReader()
	c := NewOrderEventConsumer(reader, NewOrderProjectionHandler(&fakeRecorder{orders: map[string]model.Order{}}), zerolog.Nop())
	c.Stop()
	assert.True(t, reader.closed)
}
