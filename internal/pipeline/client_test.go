package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"declutteredWeb/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientOpts{BaseURL: srv.URL})
}

func TestProcessSubmitsMultipart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/pipeline/process" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "clutter.jpg" {
			t.Errorf("filename = %q", header.Filename)
		}
		var buf bytes.Buffer
		buf.ReadFrom(file)
		if buf.String() != "jpeg-bytes" {
			t.Errorf("file body = %q", buf.String())
		}
		if got := r.MultipartForm.Value["platforms"]; len(got) != 2 || got[0] != "facebook" || got[1] != "ebay" {
			t.Errorf("platforms = %v", got)
		}
		json.NewEncoder(w).Encode(ProcessResponse{OK: true, JobID: "job-1", Status: "queued"})
	})

	resp, err := client.Process(context.Background(), "clutter.jpg", strings.NewReader("jpeg-bytes"), []string{"facebook", "ebay"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if resp.JobID != "job-1" {
		t.Errorf("job id = %q", resp.JobID)
	}
}

func TestProcessInvalidFileType(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"ok":         false,
			"error_code": CodeInvalidFileType,
			"message":    "File type not allowed",
		})
	})

	_, err := client.Process(context.Background(), "notes.txt", strings.NewReader("text"), nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.Code != CodeInvalidFileType {
		t.Errorf("code = %q", apiErr.Code)
	}
}

func TestStatusFoldsPartialResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/pipeline/status/job-1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"ok":       true,
			"job_id":   "job-1",
			"status":   "recognition_complete",
			"progress": 60,
			"message":  "Recognition complete, fetching prices",
			"partial_results": models.PipelineResults{
				DetectedObjects: 1,
				ProcessedObjects: []models.DetectedObject{
					{ObjectName: "chair", CroppedID: "c-1", RecognitionResult: &models.RecognitionResult{ProductName: "Aeron"}},
				},
			},
		})
	})

	snap, err := client.Status(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if snap.Status != models.JobRecognitionComplete || snap.Progress != 60 {
		t.Errorf("snapshot = %#v", snap)
	}
	if snap.Results == nil || len(snap.Results.ProcessedObjects) != 1 {
		t.Fatalf("partial results not folded: %#v", snap.Results)
	}
}

func TestStatusUnknownJob(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"ok":         false,
			"error_code": CodeJobNotFound,
			"message":    "Job not found",
		})
	})

	_, err := client.Status(context.Background(), "missing")
	if !errors.Is(err, models.ErrJobNotFound) {
		t.Fatalf("err = %v, want ErrJobNotFound", err)
	}
}

func TestCreateListings(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body createListingsRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(body.Items) != 1 || body.Items[0].Title != "Aeron chair" {
			t.Errorf("items = %#v", body.Items)
		}
		if len(body.Platforms) != 1 || body.Platforms[0] != "ebay" {
			t.Errorf("platforms = %v", body.Platforms)
		}
		json.NewEncoder(w).Encode(CreateListingsResponse{
			OK:       true,
			Listings: []models.CreatedListing{{Platform: "ebay", Success: true, ListingID: "e-9"}},
		})
	})

	resp, err := client.CreateListings(context.Background(),
		[]models.ListingDraft{{CroppedID: "c-1", Title: "Aeron chair", Price: 450}},
		[]string{"ebay"})
	if err != nil {
		t.Fatalf("CreateListings: %v", err)
	}
	if len(resp.Listings) != 1 || !resp.Listings[0].Success {
		t.Errorf("listings = %#v", resp.Listings)
	}
}

func TestCroppedImageBytes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/pipeline/cropped-image/c-1.jpg" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg-bytes"))
	})

	data, contentType, err := client.CroppedImage(context.Background(), "c-1.jpg")
	if err != nil {
		t.Fatalf("CroppedImage: %v", err)
	}
	if string(data) != "jpeg-bytes" || contentType != "image/jpeg" {
		t.Errorf("got %q (%s)", data, contentType)
	}
}

func TestClearJobs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		json.NewEncoder(w).Encode(clearJobsResponse{OK: true, ClearedJobs: []string{"a", "b", "c"}})
	})

	cleared, err := client.ClearJobs(context.Background())
	if err != nil {
		t.Fatalf("ClearJobs: %v", err)
	}
	if cleared != 3 {
		t.Errorf("cleared = %d, want 3", cleared)
	}
}
