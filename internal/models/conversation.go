package models

import (
	"time"
)

type Conversation struct {
	ID          int        `json:"id"`
	UserID      string     `json:"user_id"`
	BuyerName   string     `json:"buyer_name"`
	ListingID   *int       `json:"listing_id,omitempty"`
	ItemTitle   string     `json:"item_title"`
	Platform    string     `json:"platform"`
	OfferAmount *float64   `json:"offer_amount,omitempty"`
	LastMessage string     `json:"last_message"`
	Unread      int        `json:"unread"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type ConversationListResponse struct {
	Conversations []Conversation `json:"conversations"`
	TotalUnread   int            `json:"total_unread"`
}
