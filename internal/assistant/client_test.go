package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"declutteredWeb/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientOpts{BaseURL: srv.URL})
}

func TestStreamMessageDeliversChunks(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat/message" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req MessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Message != "How do I price the chair?" {
			t.Errorf("message = %q", req.Message)
		}
		if req.Context.Analytics.TotalRevenue != 610 {
			t.Errorf("context analytics = %#v", req.Context.Analytics)
		}
		w.Header().Set("Content-Type", "text/plain")
		flusher := w.(http.Flusher)
		for _, part := range []string{"Price it ", "around ", "$450."} {
			w.Write([]byte(part))
			flusher.Flush()
			time.Sleep(time.Millisecond)
		}
	})

	var got strings.Builder
	err := client.StreamMessage(context.Background(), MessageRequest{
		Message: "How do I price the chair?",
		Context: ContextPayload{Analytics: AnalyticsContext{TotalRevenue: 610}},
	}, func(chunk string) {
		got.WriteString(chunk)
	})
	if err != nil {
		t.Fatalf("StreamMessage: %v", err)
	}
	if got.String() != "Price it around $450." {
		t.Errorf("streamed = %q", got.String())
	}
}

func TestStreamMessageUpstreamDown(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	})

	err := client.StreamMessage(context.Background(), MessageRequest{Message: "hi"}, func(string) {})
	if !errors.Is(err, models.ErrAssistantUnavailable) {
		t.Fatalf("err = %v, want ErrAssistantUnavailable", err)
	}
}

func TestGenerateDraft(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req DraftRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.BuyerName != "Sam" || req.ItemTitle != "desk lamp" {
			t.Errorf("request = %#v", req)
		}
		json.NewEncoder(w).Encode(map[string]string{"draft": "Hi Sam, the lamp is still available."})
	})

	draft, err := client.GenerateDraft(context.Background(), DraftRequest{BuyerName: "Sam", ItemTitle: "desk lamp"})
	if err != nil {
		t.Fatalf("GenerateDraft: %v", err)
	}
	if draft != "Hi Sam, the lamp is still available." {
		t.Errorf("draft = %q", draft)
	}
}

func TestGenerateDraftFallsBack(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	draft, err := client.GenerateDraft(context.Background(), DraftRequest{BuyerName: "Sam", ItemTitle: "desk lamp"})
	if err != nil {
		t.Fatalf("GenerateDraft: %v", err)
	}
	want := "Hi Sam, thanks for your interest in the desk lamp. Is the price negotiable?"
	if draft != want {
		t.Errorf("draft = %q, want %q", draft, want)
	}
}

func TestBuildContextCapsLists(t *testing.T) {
	listings := make([]models.Listing, 15)
	for i := range listings {
		listings[i] = models.Listing{Title: "item", Price: 10, Status: models.ListingStatusActive}
	}
	payload := BuildContext(listings, models.Analytics{TotalRevenue: 100}, nil)
	if len(payload.RecentListings) != maxContextListings {
		t.Errorf("recent listings = %d, want %d", len(payload.RecentListings), maxContextListings)
	}
	if payload.SalesHistory == nil {
		t.Errorf("sales history should be an empty slice, not nil")
	}
}
