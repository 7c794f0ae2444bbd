package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"declutteredWeb/internal/models"
)

type ListingReader interface {
	ListingsForUser(ctx context.Context, token, userID string) (models.ListingListResponse, error)
	SalesForUser(ctx context.Context, token, userID string) ([]models.Sale, error)
}

type ConversationReader interface {
	ConversationsForUser(ctx context.Context, token, userID string) (models.ConversationListResponse, error)
}

// DashboardService assembles the seller overview. The three legs load
// in parallel and one slow or failing leg degrades the payload instead
// of sinking the whole page.
type DashboardService struct {
	Listings      ListingReader
	Conversations ConversationReader
}

func (s *DashboardService) Overview(ctx context.Context, token, userID string) (models.DashboardOverview, error) {
	var overview models.DashboardOverview
	var listingsErr, conversationsErr, salesErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var resp models.ListingListResponse
		resp, listingsErr = s.Listings.ListingsForUser(gctx, token, userID)
		overview.Listings = resp.Listings
		return nil
	})
	g.Go(func() error {
		var resp models.ConversationListResponse
		resp, conversationsErr = s.Conversations.ConversationsForUser(gctx, token, userID)
		overview.Conversations = resp.Conversations
		return nil
	})
	g.Go(func() error {
		overview.Sales, salesErr = s.Listings.SalesForUser(gctx, token, userID)
		return nil
	})
	if err := g.Wait(); err != nil {
		return overview, err
	}

	if listingsErr != nil && conversationsErr != nil && salesErr != nil {
		return overview, fmt.Errorf("load dashboard: %w", listingsErr)
	}
	overview.Partial = listingsErr != nil || conversationsErr != nil || salesErr != nil
	overview.Analytics = ComputeAnalytics(overview.Listings)
	return overview, nil
}
