package consumer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/RoyceAzure/lab/eventro/internal/domain/model/event"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type ConsumerError error

var (
	ErrConsumerClosed     ConsumerError = errors.New("consumer closed")
	ErrConsumerStarted    ConsumerError = errors.New("consumer already started")
	ErrUnknownEventFormat ConsumerError = errors.New("unknown event format")
)

type IBaseConsumer interface {
	Start(ctx context.Context) error
	Stop()
}

// Reader *kafka.Reader 的子集合
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var _ Reader = (*kafka.Reader)(nil)

type EventHandler interface {
	HandleEvent(ctx context.Context, evt event.Event) error
}

type ReaderConfig struct {
	Brokers        []string
	Topic          string
	GroupID        string
	MinBytes       int
	MaxBytes       int
	MaxWait        time.Duration
	CommitInterval time.Duration
}

func NewKafkaReader(cfg ReaderConfig) *kafka.Reader {
	if cfg.MinBytes <= 0 {
		cfg.MinBytes = 1
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 10e6
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = time.Second
	}
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		MinBytes:       cfg.MinBytes,
		MaxBytes:       cfg.MaxBytes,
		MaxWait:        cfg.MaxWait,
		CommitInterval: cfg.CommitInterval,
		StartOffset:    kafka.FirstOffset,
	})
}

const (
	fetchRetryDelay   = 200 * time.Millisecond
	handleRetryDelay  = 200 * time.Millisecond
	handleRetryMaxGap = 30 * time.Second
)

type transformFunc func(msg kafka.Message) (event.Event, error)

type baseConsumer struct {
	reader    Reader
	transform transformFunc
	handler   EventHandler
	logger    zerolog.Logger
	// 處理失敗的重試間隔，每次加倍直到 maxRetryDelay
	retryDelay    time.Duration
	maxRetryDelay time.Duration
	started       atomic.Bool
	closeOnce     sync.Once
	closeChan     chan struct{}
	done          chan struct{}
}

func newBaseConsumer(reader Reader, transform transformFunc, handler EventHandler, logger zerolog.Logger) *baseConsumer {
	if reader == nil {
		panic("consumer dependency reader is nil")
	}
	if handler == nil {
		panic("consumer dependency handler is nil")
	}
	return &baseConsumer{
		reader:        reader,
		transform:     transform,
		handler:       handler,
		logger:        logger,
		retryDelay:    handleRetryDelay,
		maxRetryDelay: handleRetryMaxGap,
		closeChan:     make(chan struct{}),
		done:          make(chan struct{}),
	}
}

func (c *baseConsumer) checkIsClosed() bool {
	select {
	case <-c.closeChan:
		return true
	default:
		return false
	}
}

// Start 背景消費直到 Stop 或 ctx 結束
func (c *baseConsumer) Start(ctx context.Context) error {
	if c.checkIsClosed() {
		return ErrConsumerClosed
	}
	if !c.started.CompareAndSwap(false, true) {
		return ErrConsumerStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		select {
		case <-c.closeChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	go func() {
		defer close(c.done)
		defer cancel()
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, context.Canceled) {
					return
				}
				c.logger.Error().Err(err).Msg("failed to fetch message")
				select {
				case <-ctx.Done():
					return
				case <-time.After(fetchRetryDelay):
				}
				continue
			}
			c.process(ctx, msg)
		}
	}()
	return nil
}

/*
無法解析的訊息直接 commit 跳過
處理失敗時在原地重試，成功前不會 fetch 下一筆
kafka-go 的 reader 位置在 fetch 時就前進，跳過失敗訊息之後的 commit 會把它一起帶過
ctx 結束時不 commit，重啟後從這筆開始
*/
func (c *baseConsumer) process(ctx context.Context, msg kafka.Message) {
	evt, err := c.transform(msg)
	if err != nil {
		c.logger.Warn().Err(err).
			Str("topic", msg.Topic).
			Int64("offset", msg.Offset).
			Msg("skip undecodable message")
		c.commit(ctx, msg)
		return
	}

	if err := c.handleWithRetry(ctx, evt, msg); err != nil {
		return
	}
	c.commit(ctx, msg)
}

func (c *baseConsumer) handleWithRetry(ctx context.Context, evt event.Event, msg kafka.Message) error {
	delay := c.retryDelay
	for attempt := 1; ; attempt++ {
		err := c.handler.HandleEvent(ctx, evt)
		if err == nil {
			return nil
		}
		c.logger.Error().Err(err).
			Str("event_id", evt.GetID()).
			Str("event_type", string(evt.Type())).
			Int64("offset", msg.Offset).
			Int("attempt", attempt).
			Dur("retry_in", delay).
			Msg("failed to handle event")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > c.maxRetryDelay {
			delay = c.maxRetryDelay
		}
	}
}

func (c *baseConsumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
		c.logger.Error().Err(err).Int64("offset", msg.Offset).Msg("failed to commit message")
	}
}

func (c *baseConsumer) Stop() {
	c.closeOnce.Do(func() {
		close(c.closeChan)
		if c.started.Load() {
			<-c.done
		}
		if err := c.reader.Close(); err != nil {
			c.logger.Warn().Err(err).Msg("failed to close reader")
		}
	})
}
