package services

import (
	"context"

	"declutteredWeb/internal/models"
	"declutteredWeb/internal/repositories"
)

type ListingService struct {
	ListingRepo *repositories.ListingRepository
	Uploads     *UploadService
}

func (s *ListingService) ListingsForUser(ctx context.Context, token, userID string) (models.ListingListResponse, error) {
	listings, err := s.ListingRepo.ListingsByUser(ctx, token, userID)
	if err != nil {
		return models.ListingListResponse{}, err
	}
	return models.ListingListResponse{Listings: listings, Total: len(listings)}, nil
}

func (s *ListingService) CreateListings(ctx context.Context, token, userID string, reqs []models.CreateListingRequest) ([]models.Listing, error) {
	return s.ListingRepo.CreateListings(ctx, token, userID, reqs)
}

func (s *ListingService) UpdateStatus(ctx context.Context, token string, id int, status string) (models.Listing, error) {
	if !models.ValidListingStatus(status) {
		return models.Listing{}, models.ErrInvalidStatus
	}
	return s.ListingRepo.UpdateStatus(ctx, token, id, status)
}

func (s *ListingService) DeleteListing(ctx context.Context, token string, id int) error {
	return s.ListingRepo.DeleteListing(ctx, token, id)
}

// AttachVideo stores a walkthrough clip for a listing and records its
// public URL on the row. Marketplace buyers convert better with video,
// so sellers can add one after the listing is live.
func (s *ListingService) AttachVideo(ctx context.Context, token, userID string, id int, filename string, data []byte) (models.Listing, error) {
	if _, err := s.ListingRepo.ListingByID(ctx, token, id); err != nil {
		return models.Listing{}, err
	}
	url, err := s.Uploads.StoreVideo(ctx, userID, filename, data)
	if err != nil {
		return models.Listing{}, err
	}
	return s.ListingRepo.SetVideoURL(ctx, token, id, url)
}

// SalesForUser projects sold listings into the sales history shape the
// dashboard and the assistant context share.
func (s *ListingService) SalesForUser(ctx context.Context, token, userID string) ([]models.Sale, error) {
	sold, err := s.ListingRepo.SoldByUser(ctx, token, userID)
	if err != nil {
		return nil, err
	}
	sales := make([]models.Sale, 0, len(sold))
	for _, l := range sold {
		sale := models.Sale{
			ListingID: l.ID,
			Title:     l.Title,
			Price:     l.Price,
			Platform:  l.Platform,
		}
		if l.SoldAt != nil {
			sale.SoldAt = *l.SoldAt
		} else {
			sale.SoldAt = l.CreatedAt
		}
		sales = append(sales, sale)
	}
	return sales, nil
}

// ComputeAnalytics derives the dashboard strip numbers from listings
// alone, so no separate analytics table is needed.
func ComputeAnalytics(listings []models.Listing) models.Analytics {
	var a models.Analytics
	for _, l := range listings {
		switch l.Status {
		case models.ListingStatusActive, models.ListingStatusPending:
			a.ActiveListings++
		case models.ListingStatusSold:
			a.ItemsSold++
			a.TotalRevenue += l.Price
		}
	}
	if a.ItemsSold > 0 {
		a.AvgSalePrice = a.TotalRevenue / float64(a.ItemsSold)
	}
	return a
}
