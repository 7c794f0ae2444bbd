package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"declutteredWeb/internal/models"
)

type fakeListingReader struct {
	listings    []models.Listing
	listingsErr error
	sales       []models.Sale
	salesErr    error
}

func (f *fakeListingReader) ListingsForUser(ctx context.Context, token, userID string) (models.ListingListResponse, error) {
	if f.listingsErr != nil {
		return models.ListingListResponse{}, f.listingsErr
	}
	return models.ListingListResponse{Listings: f.listings, Total: len(f.listings)}, nil
}

func (f *fakeListingReader) SalesForUser(ctx context.Context, token, userID string) ([]models.Sale, error) {
	return f.sales, f.salesErr
}

type fakeConversationReader struct {
	conversations []models.Conversation
	err           error
}

func (f *fakeConversationReader) ConversationsForUser(ctx context.Context, token, userID string) (models.ConversationListResponse, error) {
	if f.err != nil {
		return models.ConversationListResponse{}, f.err
	}
	return models.ConversationListResponse{Conversations: f.conversations}, nil
}

func dashboardListings() []models.Listing {
	soldAt := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	return []models.Listing{
		{ID: 1, Title: "chair", Price: 100, Status: models.ListingStatusActive},
		{ID: 2, Title: "lamp", Price: 30, Status: models.ListingStatusPending},
		{ID: 3, Title: "desk", Price: 220, Status: models.ListingStatusSold, SoldAt: &soldAt},
		{ID: 4, Title: "rug", Price: 80, Status: models.ListingStatusSold, SoldAt: &soldAt},
	}
}

func TestOverviewAggregates(t *testing.T) {
	listings := &fakeListingReader{
		listings: dashboardListings(),
		sales:    []models.Sale{{ListingID: 3, Price: 220}, {ListingID: 4, Price: 80}},
	}
	conversations := &fakeConversationReader{conversations: []models.Conversation{{ID: 1, Unread: 2}}}
	svc := &DashboardService{Listings: listings, Conversations: conversations}

	overview, err := svc.Overview(context.Background(), "token-1", "user-1")
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if overview.Partial {
		t.Fatalf("healthy backends must not flag partial data")
	}
	if len(overview.Listings) != 4 || len(overview.Conversations) != 1 || len(overview.Sales) != 2 {
		t.Fatalf("unexpected overview shape: %d listings, %d conversations, %d sales",
			len(overview.Listings), len(overview.Conversations), len(overview.Sales))
	}
	if overview.Analytics.TotalRevenue != 300 {
		t.Fatalf("expected revenue 300, got %v", overview.Analytics.TotalRevenue)
	}
	if overview.Analytics.ActiveListings != 2 {
		t.Fatalf("expected 2 active listings, got %d", overview.Analytics.ActiveListings)
	}
	if overview.Analytics.ItemsSold != 2 {
		t.Fatalf("expected 2 items sold, got %d", overview.Analytics.ItemsSold)
	}
	if overview.Analytics.AvgSalePrice != 150 {
		t.Fatalf("expected avg sale price 150, got %v", overview.Analytics.AvgSalePrice)
	}
}

func TestOverviewDegradesOnOneFailure(t *testing.T) {
	listings := &fakeListingReader{listings: dashboardListings()}
	conversations := &fakeConversationReader{err: errors.New("postgrest: 503")}
	svc := &DashboardService{Listings: listings, Conversations: conversations}

	overview, err := svc.Overview(context.Background(), "token-1", "user-1")
	if err != nil {
		t.Fatalf("one failed leg must not fail the page: %v", err)
	}
	if !overview.Partial {
		t.Fatalf("expected partial flag when conversations are down")
	}
	if len(overview.Listings) != 4 {
		t.Fatalf("healthy legs must still load, got %d listings", len(overview.Listings))
	}
	if overview.Analytics.ActiveListings != 2 {
		t.Fatalf("analytics should come from the loaded listings, got %+v", overview.Analytics)
	}
}

func TestOverviewFailsWhenEverythingIsDown(t *testing.T) {
	boom := errors.New("postgrest: connection refused")
	svc := &DashboardService{
		Listings:      &fakeListingReader{listingsErr: boom, salesErr: boom},
		Conversations: &fakeConversationReader{err: boom},
	}

	if _, err := svc.Overview(context.Background(), "token-1", "user-1"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
}

func TestComputeAnalyticsEmpty(t *testing.T) {
	got := ComputeAnalytics(nil)
	if got.TotalRevenue != 0 || got.ActiveListings != 0 || got.ItemsSold != 0 || got.AvgSalePrice != 0 {
		t.Fatalf("expected zero analytics, got %+v", got)
	}
}
