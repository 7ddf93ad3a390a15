package repository

import (
	"context"
	"sync"

	"marketcore/internal/domain/entity"
	"marketcore/internal/domain/repository"
	"marketcore/pkg/errors"
)

// memoryConversationRepository keeps conversations and their message
// sequences in process memory. Nothing survives a restart. Stored values
// are never shared with callers: everything goes in and out as a copy.
type memoryConversationRepository struct {
	mu            sync.RWMutex
	conversations map[string]*entity.Conversation
	order         []string
	messages      map[string][]*entity.Message
}

func NewMemoryConversationRepository() repository.ConversationRepository {
	return &memoryConversationRepository{
		conversations: make(map[string]*entity.Conversation),
		messages:      make(map[string][]*entity.Message),
	}
}

func cloneMessage(m *entity.Message) *entity.Message {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

func cloneConversation(c *entity.Conversation) *entity.Conversation {
	out := *c
	out.LastMessage = cloneMessage(c.LastMessage)
	return &out
}

func (r *memoryConversationRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Conversation, 0)
	for _, id := range r.order {
		c := r.conversations[id]
		if c.HasParticipant(userID) {
			out = append(out, cloneConversation(c))
		}
	}
	return out, nil
}

func (r *memoryConversationRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.conversations[id]
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	return cloneConversation(c), nil
}

func (r *memoryConversationRepository) Save(ctx context.Context, conversation *entity.Conversation) error {
	if err := conversation.Validate(); err != nil {
		return errors.BadRequest("Invalid conversation", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.conversations[conversation.ID]; !exists {
		r.order = append(r.order, conversation.ID)
	}
	r.conversations[conversation.ID] = cloneConversation(conversation)
	return nil
}

func (r *memoryConversationRepository) SetLastMessage(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conversations[message.ConversationID]
	if !ok {
		return errors.NotFound("Conversation", nil)
	}
	if c.LastMessage != nil && message.Timestamp.Before(c.LastMessage.Timestamp) {
		return nil
	}
	updated := *c
	updated.LastMessage = cloneMessage(message)
	r.conversations[c.ID] = &updated
	return nil
}

func (r *memoryConversationRepository) AppendMessage(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conversations[message.ConversationID]; !ok {
		return errors.NotFound("Conversation", nil)
	}
	r.messages[message.ConversationID] = append(r.messages[message.ConversationID], cloneMessage(message))
	return nil
}

func (r *memoryConversationRepository) Messages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.conversations[conversationID]; !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	msgs := r.messages[conversationID]
	out := make([]*entity.Message, len(msgs))
	for i, m := range msgs {
		out[i] = cloneMessage(m)
	}
	return out, nil
}

func (r *memoryConversationRepository) MarkRead(ctx context.Context, conversationID, messageID string) (*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.messages[conversationID] {
		if m.ID != messageID {
			continue
		}
		m.Read = true
		if c := r.conversations[conversationID]; c != nil && c.LastMessage != nil && c.LastMessage.ID == messageID {
			updated := *c
			updated.LastMessage = cloneMessage(m)
			r.conversations[conversationID] = &updated
		}
		return cloneMessage(m), nil
	}
	return nil, errors.NotFound("Message", nil)
}
