package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"marketcore/internal/domain/entity"
	"marketcore/internal/domain/repository"
	"marketcore/pkg/errors"
	"marketcore/pkg/logger"
)

const (
	conversationsCollection = "conversations"
	messagesCollection      = "messages"
)

// messageDoc is the stored form of a message. Seq records insertion order
// so messages with equal timestamps read back in the order they were sent.
type messageDoc struct {
	ID             string    `firestore:"id"`
	ConversationID string    `firestore:"conversationId"`
	SenderID       string    `firestore:"senderId"`
	ReceiverID     string    `firestore:"receiverId"`
	Content        string    `firestore:"content"`
	Timestamp      time.Time `firestore:"timestamp"`
	Read           bool      `firestore:"read"`
	Seq            int64     `firestore:"seq"`
}

func toMessageDoc(m *entity.Message, seq int64) messageDoc {
	return messageDoc{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		ReceiverID:     m.ReceiverID,
		Content:        m.Content,
		Timestamp:      m.Timestamp,
		Read:           m.Read,
		Seq:            seq,
	}
}

func (d messageDoc) toEntity() *entity.Message {
	return &entity.Message{
		ID:             d.ID,
		ConversationID: d.ConversationID,
		SenderID:       d.SenderID,
		ReceiverID:     d.ReceiverID,
		Content:        d.Content,
		Timestamp:      d.Timestamp,
		Read:           d.Read,
	}
}

type firestoreConversationRepository struct {
	client *firestore.Client
	now    func() time.Time
}

func NewFirestoreConversationRepository(client *firestore.Client) repository.ConversationRepository {
	return &firestoreConversationRepository{
		client: client,
		now:    time.Now,
	}
}

func (r *firestoreConversationRepository) conversations() *firestore.CollectionRef {
	return r.client.Collection(conversationsCollection)
}

func (r *firestoreConversationRepository) messages(conversationID string) *firestore.CollectionRef {
	return r.conversations().Doc(conversationID).Collection(messagesCollection)
}

// ListByUserID merges the conversations where the user is buyer with those
// where the user is seller. Firestore cannot OR across fields in one query.
func (r *firestoreConversationRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	seen := make(map[string]bool)
	out := make([]*entity.Conversation, 0)

	for _, field := range []string{"buyerId", "sellerId"} {
		iter := r.conversations().Where(field, "==", userID).Documents(ctx)
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				iter.Stop()
				return nil, errors.Internal("Failed to fetch conversations", err)
			}

			var conv entity.Conversation
			if err := doc.DataTo(&conv); err != nil {
				logger.Warn("Skipping conversation %s for user %s: %v", doc.Ref.ID, userID, err)
				continue
			}
			if conv.ID == "" {
				conv.ID = doc.Ref.ID
			}
			if seen[conv.ID] {
				continue
			}
			seen[conv.ID] = true
			out = append(out, &conv)
		}
		iter.Stop()
	}

	return out, nil
}

func (r *firestoreConversationRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	doc, err := r.conversations().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Conversation", err)
		}
		return nil, errors.Internal("Failed to get conversation", err)
	}

	var conv entity.Conversation
	if err := doc.DataTo(&conv); err != nil {
		return nil, errors.Internal("Failed to parse conversation data", err)
	}
	if conv.ID == "" {
		conv.ID = doc.Ref.ID
	}
	return &conv, nil
}

func (r *firestoreConversationRepository) Save(ctx context.Context, conversation *entity.Conversation) error {
	if err := conversation.Validate(); err != nil {
		return errors.BadRequest("Invalid conversation", err)
	}

	if _, err := r.conversations().Doc(conversation.ID).Set(ctx, conversation); err != nil {
		return errors.Internal("Failed to save conversation", err)
	}
	return nil
}

// SetLastMessage runs in a transaction so concurrent senders cannot move the
// conversation's last message backwards in time.
func (r *firestoreConversationRepository) SetLastMessage(ctx context.Context, message *entity.Message) error {
	ref := r.conversations().Doc(message.ConversationID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var conv entity.Conversation
		if err := doc.DataTo(&conv); err != nil {
			return err
		}
		if conv.LastMessage != nil && message.Timestamp.Before(conv.LastMessage.Timestamp) {
			return nil
		}
		return tx.Update(ref, []firestore.Update{{Path: "lastMessage", Value: message}})
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Conversation", err)
		}
		return errors.Internal("Failed to update last message", err)
	}
	return nil
}

func (r *firestoreConversationRepository) AppendMessage(ctx context.Context, message *entity.Message) error {
	doc := toMessageDoc(message, r.now().UnixNano())
	if _, err := r.messages(message.ConversationID).Doc(message.ID).Create(ctx, doc); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.BadRequest("Message already exists", err)
		}
		return errors.Internal("Failed to create message", err)
	}
	return nil
}

func (r *firestoreConversationRepository) Messages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	iter := r.messages(conversationID).
		OrderBy("timestamp", firestore.Asc).
		OrderBy("seq", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	out := make([]*entity.Message, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		var md messageDoc
		if err := doc.DataTo(&md); err != nil {
			return nil, errors.Internal("Failed to parse message data", err)
		}
		out = append(out, md.toEntity())
	}
	return out, nil
}

func (r *firestoreConversationRepository) MarkRead(ctx context.Context, conversationID, messageID string) (*entity.Message, error) {
	ref := r.messages(conversationID).Doc(messageID)
	if _, err := ref.Update(ctx, []firestore.Update{{Path: "read", Value: true}}); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Message", err)
		}
		return nil, errors.Internal("Failed to update message read status", err)
	}

	doc, err := ref.Get(ctx)
	if err != nil {
		return nil, errors.Internal("Failed to get message", err)
	}
	var md messageDoc
	if err := doc.DataTo(&md); err != nil {
		return nil, errors.Internal("Failed to parse message data", err)
	}
	return md.toEntity(), nil
}
