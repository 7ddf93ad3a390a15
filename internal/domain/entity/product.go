package entity

import (
	"time"
)

type Product struct {
	ID           string    `json:"id" firestore:"id" yaml:"id"`
	Title        string    `json:"title" firestore:"title" yaml:"title"`
	Description  string    `json:"description" firestore:"description" yaml:"description"`
	Price        float64   `json:"price" firestore:"price" yaml:"price"`
	Currency     string    `json:"currency" firestore:"currency" yaml:"currency"`
	Category     string    `json:"category" firestore:"category" yaml:"category"`
	Location     string    `json:"location" firestore:"location" yaml:"location"`
	ImageURL     string    `json:"image_url,omitempty" firestore:"imageUrl,omitempty" yaml:"image_url"`
	SellerID     string    `json:"seller_id" firestore:"sellerId" yaml:"seller_id"`
	SellerName   string    `json:"seller_name" firestore:"sellerName" yaml:"seller_name"`
	SellerAvatar string    `json:"seller_avatar,omitempty" firestore:"sellerAvatar,omitempty" yaml:"seller_avatar"`
	Featured     bool      `json:"featured" firestore:"featured" yaml:"featured"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt" yaml:"created_at"`
}
