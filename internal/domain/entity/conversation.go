package entity

import (
	"fmt"
	"time"
)

type Conversation struct {
	ID           string    `json:"id" firestore:"id"`
	ProductID    string    `json:"product_id" firestore:"productId"`
	ProductTitle string    `json:"product_title" firestore:"productTitle"`
	BuyerID      string    `json:"buyer_id" firestore:"buyerId"`
	SellerID     string    `json:"seller_id" firestore:"sellerId"`
	LastMessage  *Message  `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
}

// Validate checks the structural invariants of a conversation.
func (c *Conversation) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("conversation id is empty")
	}
	if c.BuyerID == "" || c.SellerID == "" {
		return fmt.Errorf("conversation %s: buyer and seller are required", c.ID)
	}
	if c.BuyerID == c.SellerID {
		return fmt.Errorf("conversation %s: buyer and seller must differ", c.ID)
	}
	return nil
}

// HasParticipant reports whether userID is the buyer or the seller.
func (c *Conversation) HasParticipant(userID string) bool {
	return userID != "" && (userID == c.BuyerID || userID == c.SellerID)
}

// LastActivity is the time used to order conversation lists.
func (c *Conversation) LastActivity() time.Time {
	if c.LastMessage != nil {
		return c.LastMessage.Timestamp
	}
	return c.CreatedAt
}
