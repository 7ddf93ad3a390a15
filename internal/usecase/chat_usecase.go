package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"marketcore/internal/domain/entity"
	"marketcore/internal/domain/repository"
	"marketcore/internal/domain/service"
	"marketcore/internal/infrastructure/ratelimit"
	"marketcore/pkg/errors"
	"marketcore/pkg/logger"
)

// ChatUseCase manages the append-only message sequence of conversations.
type ChatUseCase struct {
	convRepo    repository.ConversationRepository
	rateLimiter *ratelimit.RateLimiter
	now         func() time.Time
	newID       func() string
}

type ChatOption func(*ChatUseCase)

// WithClock overrides the time source used to stamp sent messages.
func WithClock(now func() time.Time) ChatOption {
	return func(uc *ChatUseCase) { uc.now = now }
}

// WithIDGenerator overrides how message ids are generated.
func WithIDGenerator(newID func() string) ChatOption {
	return func(uc *ChatUseCase) { uc.newID = newID }
}

// NewChatUseCase builds a chat session manager. rateLimiter may be nil.
func NewChatUseCase(convRepo repository.ConversationRepository, rateLimiter *ratelimit.RateLimiter, opts ...ChatOption) *ChatUseCase {
	uc := &ChatUseCase{
		convRepo:    convRepo,
		rateLimiter: rateLimiter,
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Send appends a message from senderID to the conversation. Blank content
// is accepted and ignored: Send returns a nil message and a nil error. The
// receiver is the sender's other party; a sender outside the conversation
// is an INVALID_STATE error.
func (uc *ChatUseCase) Send(ctx context.Context, conv *entity.Conversation, senderID, content string) (*entity.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	receiverID, err := OtherParty(conv, senderID)
	if err != nil {
		return nil, err
	}

	if uc.rateLimiter != nil {
		if allowed, wait := uc.rateLimiter.Allow(senderID, ratelimit.ActionSendMessage); !allowed {
			logger.With("user", senderID, "conversation", conv.ID).Warnf("Send rate limited, retry in %v", wait)
			return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before sending another message", nil)
		}
	}

	message := &entity.Message{
		ID:             uc.newID(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Content:        content,
		Timestamp:      uc.now().UTC(),
		Read:           false,
	}

	if err := uc.convRepo.AppendMessage(ctx, message); err != nil {
		return nil, err
	}

	if err := uc.convRepo.SetLastMessage(ctx, message); err != nil {
		logger.Error("Send: failed to update last message for conversation %s: %v", conv.ID, err)
	}

	return message, nil
}

// History returns the conversation's messages ascending by timestamp;
// equal timestamps keep insertion order.
func (uc *ChatUseCase) History(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	msgs, err := uc.convRepo.Messages(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return service.OrderMessages(msgs), nil
}

// HistoryByDay is History split into calendar-day groups in loc.
func (uc *ChatUseCase) HistoryByDay(ctx context.Context, conversationID string, loc *time.Location) ([]service.DayGroup, error) {
	msgs, err := uc.History(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return service.GroupByDay(msgs, loc), nil
}

// MarkRead marks one message read on behalf of its receiver. Nobody else,
// the sender included, may change its read state.
func (uc *ChatUseCase) MarkRead(ctx context.Context, conversationID, messageID, viewerID string) (*entity.Message, error) {
	msgs, err := uc.convRepo.Messages(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	for _, m := range msgs {
		if m.ID != messageID {
			continue
		}
		if m.ReceiverID != viewerID {
			return nil, errors.Forbidden("Only the receiver can mark a message as read", nil)
		}
		if m.Read {
			return m, nil
		}
		return uc.convRepo.MarkRead(ctx, conversationID, messageID)
	}
	return nil, errors.NotFound("Message", nil)
}

// MarkConversationRead marks every message addressed to viewerID as read
// and returns how many changed.
func (uc *ChatUseCase) MarkConversationRead(ctx context.Context, conversationID, viewerID string) (int, error) {
	msgs, err := uc.convRepo.Messages(ctx, conversationID)
	if err != nil {
		return 0, err
	}

	marked := 0
	for _, m := range msgs {
		if m.ReceiverID != viewerID || m.Read {
			continue
		}
		if _, err := uc.convRepo.MarkRead(ctx, conversationID, m.ID); err != nil {
			return marked, err
		}
		marked++
	}
	return marked, nil
}
