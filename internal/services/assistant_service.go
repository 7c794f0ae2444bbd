package services

import (
	"context"

	"declutteredWeb/internal/assistant"
)

// AssistantService fronts the chat backend. Every prompt carries a
// snapshot of the seller's dashboard so the assistant can answer
// questions about their own listings and sales; when that snapshot
// cannot be loaded the message still goes through with an empty one.
type AssistantService struct {
	Client   *assistant.Client
	Listings ListingReader
}

func (s *AssistantService) BuildMessageRequest(ctx context.Context, token, userID, message string, history []assistant.ChatMessage) assistant.MessageRequest {
	req := assistant.MessageRequest{Message: message, History: history}

	listings, err := s.Listings.ListingsForUser(ctx, token, userID)
	if err != nil {
		req.Context = assistant.BuildContext(nil, ComputeAnalytics(nil), nil)
		return req
	}

	sales, err := s.Listings.SalesForUser(ctx, token, userID)
	if err != nil {
		sales = nil
	}

	req.Context = assistant.BuildContext(listings.Listings, ComputeAnalytics(listings.Listings), sales)
	return req
}

func (s *AssistantService) Stream(ctx context.Context, req assistant.MessageRequest, onChunk func(chunk string)) error {
	return s.Client.StreamMessage(ctx, req, onChunk)
}

func (s *AssistantService) Draft(ctx context.Context, req assistant.DraftRequest) (string, error) {
	return s.Client.GenerateDraft(ctx, req)
}
