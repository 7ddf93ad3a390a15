package entity

import "time"

type Message struct {
	ID             string    `json:"id" firestore:"id"`
	ConversationID string    `json:"conversation_id" firestore:"conversationId"`
	SenderID       string    `json:"sender_id" firestore:"senderId"`
	ReceiverID     string    `json:"receiver_id" firestore:"receiverId"`
	Content        string    `json:"content" firestore:"content"`
	Timestamp      time.Time `json:"timestamp" firestore:"timestamp"`
	Read           bool      `json:"read" firestore:"read"`
}
