package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"declutteredWeb/internal/models"
	"declutteredWeb/internal/supabase"
)

// ListingRepository reads and writes the listings table through the
// backend's REST interface. Row level security scopes every call to
// the access token's user, so the token rides along explicitly.
type ListingRepository struct {
	Client *supabase.Client
}

const listingsTable = "listings"

type listingInsert struct {
	UserID      string  `json:"user_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Platform    string  `json:"platform"`
	Status      string  `json:"status"`
	ImageURL    *string `json:"image_url,omitempty"`
	CroppedID   *string `json:"cropped_id,omitempty"`
}

func (r *ListingRepository) ListingsByUser(ctx context.Context, token, userID string) ([]models.Listing, error) {
	var listings []models.Listing
	err := r.Client.From(listingsTable).
		Auth(token).
		Select("*").
		Eq("user_id", userID).
		Order("created_at", true).
		Get(ctx, &listings)
	if err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}
	return listings, nil
}

func (r *ListingRepository) ListingByID(ctx context.Context, token string, id int) (models.Listing, error) {
	var listing models.Listing
	err := r.Client.From(listingsTable).
		Auth(token).
		Select("*").
		Eq("id", fmt.Sprint(id)).
		Single(ctx, &listing)
	if errors.Is(err, models.ErrNoRecord) {
		return models.Listing{}, models.ErrListingNotFound
	}
	if err != nil {
		return models.Listing{}, err
	}
	return listing, nil
}

func (r *ListingRepository) CreateListings(ctx context.Context, token, userID string, reqs []models.CreateListingRequest) ([]models.Listing, error) {
	rows := make([]listingInsert, 0, len(reqs))
	for _, req := range reqs {
		row := listingInsert{
			UserID:      userID,
			Title:       req.Title,
			Description: req.Description,
			Price:       req.Price,
			Platform:    req.Platform,
			Status:      models.ListingStatusActive,
		}
		if req.ImageURL != "" {
			url := req.ImageURL
			row.ImageURL = &url
		}
		if req.CroppedID != "" {
			id := req.CroppedID
			row.CroppedID = &id
		}
		rows = append(rows, row)
	}

	var created []models.Listing
	if err := r.Client.From(listingsTable).Auth(token).Insert(ctx, rows, &created); err != nil {
		return nil, fmt.Errorf("insert listings: %w", err)
	}
	return created, nil
}

func (r *ListingRepository) UpdateStatus(ctx context.Context, token string, id int, status string) (models.Listing, error) {
	patch := map[string]any{"status": status}
	if status == models.ListingStatusSold {
		patch["sold_at"] = time.Now().UTC().Format(time.RFC3339)
	}

	var updated []models.Listing
	err := r.Client.From(listingsTable).
		Auth(token).
		Eq("id", fmt.Sprint(id)).
		Update(ctx, patch, &updated)
	if err != nil {
		return models.Listing{}, fmt.Errorf("update listing status: %w", err)
	}
	if len(updated) == 0 {
		return models.Listing{}, models.ErrListingNotFound
	}
	return updated[0], nil
}

func (r *ListingRepository) SetVideoURL(ctx context.Context, token string, id int, url string) (models.Listing, error) {
	var updated []models.Listing
	err := r.Client.From(listingsTable).
		Auth(token).
		Eq("id", fmt.Sprint(id)).
		Update(ctx, map[string]any{"video_url": url}, &updated)
	if err != nil {
		return models.Listing{}, fmt.Errorf("set listing video: %w", err)
	}
	if len(updated) == 0 {
		return models.Listing{}, models.ErrListingNotFound
	}
	return updated[0], nil
}

func (r *ListingRepository) DeleteListing(ctx context.Context, token string, id int) error {
	return r.Client.From(listingsTable).
		Auth(token).
		Eq("id", fmt.Sprint(id)).
		Delete(ctx)
}

func (r *ListingRepository) SoldByUser(ctx context.Context, token, userID string) ([]models.Listing, error) {
	var listings []models.Listing
	err := r.Client.From(listingsTable).
		Auth(token).
		Select("*").
		Eq("user_id", userID).
		Eq("status", models.ListingStatusSold).
		Order("sold_at", true).
		Get(ctx, &listings)
	if err != nil {
		return nil, fmt.Errorf("load sold listings: %w", err)
	}
	return listings, nil
}
