//go:build go1.22

// These tests drive getParam through the net/http PathValue API, so
// they need the Go 1.22+ standard library to compile.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"declutteredWeb/internal/pipeline"
)

func newFakePipelineServer(t *testing.T, handler http.HandlerFunc) *pipeline.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return pipeline.NewClient(pipeline.ClientOpts{BaseURL: srv.URL})
}

func TestGetJobStatusUnknownJob(t *testing.T) {
	client := newFakePipelineServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"ok":false,"error_code":"JOB_NOT_FOUND","message":"Job not found"}`))
	})
	h := &PipelineHandler{Pipeline: client}

	r := httptest.NewRequest(http.MethodGet, "/api/pipeline/status/gone", nil)
	r.SetPathValue("job_id", "gone")
	w := httptest.NewRecorder()
	h.GetJobStatus(w, r)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetCroppedImageProxiesBytes(t *testing.T) {
	client := newFakePipelineServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/pipeline/cropped-image/crop_1.jpg" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("pngbytes"))
	})
	h := &PipelineHandler{Pipeline: client}

	r := httptest.NewRequest(http.MethodGet, "/api/pipeline/cropped-image/crop_1.jpg", nil)
	r.SetPathValue("filename", "crop_1.jpg")
	w := httptest.NewRecorder()
	h.GetCroppedImage(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type not forwarded: %q", ct)
	}
	if w.Body.String() != "pngbytes" {
		t.Fatalf("image bytes not forwarded: %q", w.Body.String())
	}
}
