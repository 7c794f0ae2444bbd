package models

import (
	"time"
)

const (
	ListingStatusActive  = "active"
	ListingStatusPending = "pending"
	ListingStatusSold    = "sold"
)

type Listing struct {
	ID          int        `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Platform    string     `json:"platform"`
	Status      string     `json:"status"`
	ImageURL    *string    `json:"image_url,omitempty"`
	VideoURL    *string    `json:"video_url,omitempty"`
	CroppedID   *string    `json:"cropped_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	SoldAt      *time.Time `json:"sold_at,omitempty"`
}

type CreateListingRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Platform    string  `json:"platform"`
	ImageURL    string  `json:"image_url,omitempty"`
	CroppedID   string  `json:"cropped_id,omitempty"`
}

type UpdateListingStatusRequest struct {
	Status string `json:"status"`
}

type ListingListResponse struct {
	Listings []Listing `json:"listings"`
	Total    int       `json:"total"`
}

func ValidListingStatus(s string) bool {
	switch s {
	case ListingStatusActive, ListingStatusPending, ListingStatusSold:
		return true
	}
	return false
}
