package assistant

import (
	"declutteredWeb/internal/models"
)

// maxContextListings caps how much dashboard state rides along with a
// chat prompt.
const maxContextListings = 10

type ListingContext struct {
	Title  string  `json:"title"`
	Price  float64 `json:"price"`
	Status string  `json:"status"`
}

type AnalyticsContext struct {
	TotalRevenue   float64 `json:"totalRevenue"`
	ActiveListings int     `json:"activeListings"`
	ItemsSold      int     `json:"itemsSold"`
}

type SaleContext struct {
	Item  string  `json:"item"`
	Price float64 `json:"price"`
	Date  string  `json:"date"`
}

type ContextPayload struct {
	RecentListings []ListingContext `json:"recentListings"`
	Analytics      AnalyticsContext `json:"analytics"`
	SalesHistory   []SaleContext    `json:"salesHistory"`
}

// BuildContext shapes the seller's current state the way the assistant
// service expects it.
func BuildContext(listings []models.Listing, analytics models.Analytics, sales []models.Sale) ContextPayload {
	payload := ContextPayload{
		RecentListings: make([]ListingContext, 0, len(listings)),
		SalesHistory:   make([]SaleContext, 0, len(sales)),
		Analytics: AnalyticsContext{
			TotalRevenue:   analytics.TotalRevenue,
			ActiveListings: analytics.ActiveListings,
			ItemsSold:      analytics.ItemsSold,
		},
	}
	for i, l := range listings {
		if i >= maxContextListings {
			break
		}
		payload.RecentListings = append(payload.RecentListings, ListingContext{
			Title:  l.Title,
			Price:  l.Price,
			Status: l.Status,
		})
	}
	for i, s := range sales {
		if i >= maxContextListings {
			break
		}
		payload.SalesHistory = append(payload.SalesHistory, SaleContext{
			Item:  s.Title,
			Price: s.Price,
			Date:  s.SoldAt.Format("2006-01-02"),
		})
	}
	return payload
}
