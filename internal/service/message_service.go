package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/RoyceAzure/lab/eventro/internal/domain/model"
	"github.com/RoyceAzure/lab/eventro/internal/infra/repository/session_repo"
	"github.com/rs/zerolog"
)

type MessageServiceError error

var (
	ErrEmptyMessage   MessageServiceError = errors.New("message is empty")
	ErrServiceStopped MessageServiceError = errors.New("message service stopped")
)

const (
	DefaultThreadID = "001234"
	// 500ms 後出現輸入中，再 2s 後回覆
	defaultReplyDelay = 2500 * time.Millisecond
	avatarBase        = "../assets/img/placeholders/"
)

var (
	CurrentUser = model.Participant{ID: 1, Name: "SoundWave Productions", Avatar: avatarBase + "avatar-01.jpg"}
	Counterpart = model.Participant{ID: 2, Name: "Sarah Johnson", Avatar: avatarBase + "avatar-02.jpg"}
)

var cannedResponses = []string{
	"Thank you for your message! I'll get back to you shortly with more details.",
	"That's a great question. Let me check our availability and get back to you.",
	"I appreciate your interest in our services. I'll send you a detailed quote soon.",
	"Thanks for reaching out! I'll review your requirements and respond within the hour.",
}

func sampleThread(now time.Time) []model.Message {
	return []model.Message{
		{
			ID:           1,
			SenderID:     Counterpart.ID,
			SenderName:   Counterpart.Name,
			SenderAvatar: Counterpart.Avatar,
			Message:      "Hi! I'm excited about booking your sound system for my wedding. Do you have experience with outdoor events?",
			Timestamp:    now.Add(-2 * time.Hour),
			Type:         model.MessageTypeReceived,
		},
		{
			ID:           2,
			SenderID:     CurrentUser.ID,
			SenderName:   CurrentUser.Name,
			SenderAvatar: CurrentUser.Avatar,
			Message:      "Yes! We specialize in outdoor weddings. Our equipment is weather-resistant and we always bring backup gear.",
			Timestamp:    now.Add(-1 * time.Hour),
			Type:         model.MessageTypeSent,
		},
		{
			ID:           3,
			SenderID:     Counterpart.ID,
			SenderName:   Counterpart.Name,
			SenderAvatar: Counterpart.Avatar,
			Message:      "That's great to hear! What's included in the setup service? Will you handle the sound check before guests arrive?",
			Timestamp:    now.Add(-30 * time.Minute),
			Type:         model.MessageTypeReceived,
		},
	}
}

type IMessageService interface {
	Thread(ctx context.Context, sessionID, threadID string) ([]model.Message, error)
	Send(ctx context.Context, sessionID, threadID string, sender model.Participant, text string) (model.Message, error)
	SimulateReply(ctx context.Context, sessionID, threadID string) (model.Message, error)
	ScheduleReply(sessionID, threadID string) error
	Close()
}

type MessageService struct {
	repo       session_repo.IThreadRepo
	logger     zerolog.Logger
	now        func() time.Time
	pick       func(n int) int
	replyDelay time.Duration

	// 背景回覆
	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
}

var _ IMessageService = (*MessageService)(nil)

type MessageOption func(*MessageService)

func WithMessageClock(now func() time.Time) MessageOption {
	return func(s *MessageService) {
		s.now = now
	}
}

// WithResponsePicker pick 回傳 [0, n) 的 index
func WithResponsePicker(pick func(n int) int) MessageOption {
	return func(s *MessageService) {
		s.pick = pick
	}
}

func WithReplyDelay(delay time.Duration) MessageOption {
	return func(s *MessageService) {
		if delay >= 0 {
			s.replyDelay = delay
		}
	}
}

func NewMessageService(repo session_repo.IThreadRepo, logger zerolog.Logger, opts ...MessageOption) *MessageService {
	if repo == nil {
		panic("message service dependency repo is nil")
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &MessageService{
		repo:       repo,
		logger:     logger,
		now:        time.Now,
		pick:       rand.IntN,
		replyDelay: defaultReplyDelay,
		baseCtx:    ctx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalizeThreadID(threadID string) string {
	threadID = strings.TrimSpace(threadID)
	if threadID == "" {
		return DefaultThreadID
	}
	return threadID
}

// Thread 不存在或資料損毀時使用範例對話並寫回
func (s *MessageService) Thread(ctx context.Context, sessionID, threadID string) ([]model.Message, error) {
	threadID = normalizeThreadID(threadID)
	messages, err := s.repo.GetThread(ctx, sessionID, threadID)
	switch {
	case err == nil:
		if messages == nil {
			messages = []model.Message{}
		}
		return messages, nil
	case errors.Is(err, session_repo.ErrStateNotFound):
	case errors.Is(err, session_repo.ErrCorruptState):
		s.logger.Warn().Err(err).
			Str("session_id", sessionID).
			Str("thread_id", threadID).
			Msg("corrupt message thread, reset to sample thread")
	default:
		return nil, err
	}

	messages = sampleThread(s.now().UTC())
	if err := s.repo.SaveThread(ctx, sessionID, threadID, messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *MessageService) appendMessage(ctx context.Context, sessionID, threadID string, sender model.Participant, text string, msgType model.MessageType) (model.Message, error) {
	messages, err := s.Thread(ctx, sessionID, threadID)
	if err != nil {
		return model.Message{}, err
	}
	msg := model.Message{
		ID:           len(messages) + 1,
		SenderID:     sender.ID,
		SenderName:   sender.Name,
		SenderAvatar: sender.Avatar,
		Message:      text,
		Timestamp:    s.now().UTC(),
		Type:         msgType,
	}
	messages = append(messages, msg)
	if err := s.repo.SaveThread(ctx, sessionID, normalizeThreadID(threadID), messages); err != nil {
		return model.Message{}, err
	}
	return msg, nil
}

// Send 去除前後空白後不可為空
func (s *MessageService) Send(ctx context.Context, sessionID, threadID string, sender model.Participant, text string) (model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Message{}, ErrEmptyMessage
	}
	return s.appendMessage(ctx, sessionID, threadID, sender, text, model.MessageTypeSent)
}

// SimulateReply 等待 replyDelay 後由對方回覆一則罐頭訊息
func (s *MessageService) SimulateReply(ctx context.Context, sessionID, threadID string) (model.Message, error) {
	if s.replyDelay > 0 {
		timer := time.NewTimer(s.replyDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return model.Message{}, ctx.Err()
		case <-timer.C:
		}
	}
	text := cannedResponses[s.pick(len(cannedResponses))]
	return s.appendMessage(ctx, sessionID, threadID, Counterpart, text, model.MessageTypeReceived)
}

// ScheduleReply 背景執行 SimulateReply，Close 時取消並等待
func (s *MessageService) ScheduleReply(sessionID, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrServiceStopped
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		msg, err := s.SimulateReply(s.baseCtx, sessionID, threadID)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to simulate reply")
			}
			return
		}
		s.logger.Debug().Str("session_id", sessionID).Int("message_id", msg.ID).Msg("simulated reply")
	}()
	return nil
}

func (s *MessageService) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

/*
TimeAgo 顯示訊息相對時間
  - 未滿 1 分鐘: Just now
  - 未滿 1 小時: N minute(s) ago
  - 未滿 1 天: N hour(s) ago
  - 其他: N day(s) ago
*/
func TimeAgo(now, t time.Time) string {
	minutes := int(now.Sub(t) / time.Minute)
	switch {
	case minutes < 1:
		return "Just now"
	case minutes < 60:
		return pluralAgo(minutes, "minute")
	case minutes < 1440:
		return pluralAgo(minutes/60, "hour")
	default:
		return pluralAgo(minutes/1440, "day")
	}
}

func pluralAgo(n int, unit string) string {
	if n > 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}
