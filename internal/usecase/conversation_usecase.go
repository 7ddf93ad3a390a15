package usecase

import (
	"context"
	"sort"
	"sync"

	"marketcore/internal/domain/entity"
	"marketcore/internal/domain/repository"
	"marketcore/internal/infrastructure/seed"
	"marketcore/pkg/errors"
	"marketcore/pkg/locale"
	"marketcore/pkg/logger"
)

// ThreadSource synthesizes demo conversations for a viewer who has none.
type ThreadSource interface {
	ThreadsFor(viewer entity.User, lang locale.Language) []seed.Thread
}

type ConversationUseCase struct {
	convRepo repository.ConversationRepository
	threads  ThreadSource

	seedMu sync.Mutex
	seeded map[string]bool
}

// NewConversationUseCase builds the aggregator. threads may be nil, in
// which case conversations only come from the repository.
func NewConversationUseCase(convRepo repository.ConversationRepository, threads ThreadSource) *ConversationUseCase {
	return &ConversationUseCase{
		convRepo: convRepo,
		threads:  threads,
		seeded:   make(map[string]bool),
	}
}

// OtherParty returns whichever of buyer and seller is not userID.
func OtherParty(conv *entity.Conversation, userID string) (string, error) {
	switch {
	case conv == nil:
		return "", errors.InvalidState("conversation is nil")
	case userID != "" && userID == conv.BuyerID:
		return conv.SellerID, nil
	case userID != "" && userID == conv.SellerID:
		return conv.BuyerID, nil
	default:
		return "", errors.InvalidState("user " + userID + " is not a party to conversation " + conv.ID)
	}
}

// ConversationsFor lists the user's conversations, most recent activity
// first. Ties keep repository order.
func (uc *ConversationUseCase) ConversationsFor(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	convs, err := uc.convRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*entity.Conversation, 0, len(convs))
	for _, c := range convs {
		if c.HasParticipant(userID) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastActivity().After(out[j].LastActivity())
	})
	return out, nil
}

// Open is ConversationsFor for an identified viewer. A viewer with no
// conversations gets the demo threads first, once per process.
func (uc *ConversationUseCase) Open(ctx context.Context, viewer entity.User, lang locale.Language) ([]*entity.Conversation, error) {
	if err := uc.ensureSeeded(ctx, viewer, lang); err != nil {
		return nil, err
	}
	return uc.ConversationsFor(ctx, viewer.ID)
}

func (uc *ConversationUseCase) ensureSeeded(ctx context.Context, viewer entity.User, lang locale.Language) error {
	if uc.threads == nil || viewer.ID == "" {
		return nil
	}

	uc.seedMu.Lock()
	defer uc.seedMu.Unlock()

	if uc.seeded[viewer.ID] {
		return nil
	}
	existing, err := uc.convRepo.ListByUserID(ctx, viewer.ID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		uc.seeded[viewer.ID] = true
		return nil
	}

	threads := uc.threads.ThreadsFor(viewer, lang)
	for _, th := range threads {
		if err := uc.convRepo.Save(ctx, th.Conversation); err != nil {
			return err
		}
		for _, m := range th.Messages {
			if err := uc.convRepo.AppendMessage(ctx, m); err != nil {
				return err
			}
		}
	}
	uc.seeded[viewer.ID] = true
	logger.Debug("Seeded %d conversations for user %s", len(threads), viewer.ID)
	return nil
}

// Search narrows the user's conversation list to those whose product title
// or last message contains query.
func (uc *ConversationUseCase) Search(ctx context.Context, userID, query string) ([]*entity.Conversation, error) {
	convs, err := uc.ConversationsFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return convs, nil
	}

	out := make([]*entity.Conversation, 0, len(convs))
	for _, c := range convs {
		if locale.ContainsFold(c.ProductTitle, query) ||
			(c.LastMessage != nil && locale.ContainsFold(c.LastMessage.Content, query)) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Get returns a conversation the viewer takes part in.
func (uc *ConversationUseCase) Get(ctx context.Context, viewerID, conversationID string) (*entity.Conversation, error) {
	conv, err := uc.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(viewerID) {
		return nil, errors.Forbidden("You are not a participant in this conversation", nil)
	}
	return conv, nil
}

// UnreadCount counts messages addressed to userID that are still unread.
func (uc *ConversationUseCase) UnreadCount(ctx context.Context, userID string) (int, error) {
	convs, err := uc.convRepo.ListByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, c := range convs {
		msgs, err := uc.convRepo.Messages(ctx, c.ID)
		if err != nil {
			return 0, err
		}
		for _, m := range msgs {
			if m.ReceiverID == userID && !m.Read {
				count++
			}
		}
	}
	return count, nil
}
