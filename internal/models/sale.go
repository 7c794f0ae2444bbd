package models

import "time"

type Sale struct {
	ListingID int       `json:"listing_id"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"`
	Platform  string    `json:"platform"`
	SoldAt    time.Time `json:"sold_at"`
}

type Analytics struct {
	TotalRevenue   float64 `json:"total_revenue"`
	ActiveListings int     `json:"active_listings"`
	ItemsSold      int     `json:"items_sold"`
	AvgSalePrice   float64 `json:"avg_sale_price"`
}

type DashboardOverview struct {
	Listings      []Listing      `json:"listings"`
	Conversations []Conversation `json:"conversations"`
	Sales         []Sale         `json:"sales"`
	Analytics     Analytics      `json:"analytics"`
	Partial       bool           `json:"partial,omitempty"`
}
