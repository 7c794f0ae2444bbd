package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"declutteredWeb/internal/models"
	"declutteredWeb/internal/pipeline"
	"declutteredWeb/internal/services"
	"declutteredWeb/internal/session"
)

type PipelineHandler struct {
	Declutter *services.DeclutterService
	Pipeline  *pipeline.Client
	Sessions  *session.Manager
}

// ProcessImage accepts the room photo and starts a detection job. The
// multipart field name and the size cap match what the processing
// service itself enforces.
func (h *PipelineHandler) ProcessImage(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, services.MaxImageBytes+1<<20)
	if err := r.ParseMultipartForm(4 << 20); err != nil {
		http.Error(w, "Image too large or malformed upload", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "No image file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read upload", http.StatusBadRequest)
		return
	}

	platforms := r.MultipartForm.Value["platforms"]

	resp, err := h.Declutter.StartJob(r.Context(), sess, header.Filename, data, platforms)
	if err != nil {
		writeUploadError(w, err)
		return
	}

	if err := h.Sessions.Update(r.Context(), sess); err != nil {
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(resp)
}

// CreateListings forwards a prepared item batch straight to the
// processing service's posting endpoint. The capture flow goes through
// the queue operation instead, which also records the rows; this route
// serves callers that bring their own drafts.
func (h *PipelineHandler) CreateListings(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentSession(w, r); !ok {
		return
	}

	var req struct {
		Items     []models.ListingDraft `json:"items"`
		Platforms []string              `json:"platforms"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Items) == 0 {
		http.Error(w, "No items to post", http.StatusBadRequest)
		return
	}

	resp, err := h.Pipeline.CreateListings(r.Context(), req.Items, req.Platforms)
	if err != nil {
		var apiErr *pipeline.APIError
		if errors.As(err, &apiErr) {
			http.Error(w, apiErr.Message, http.StatusBadGateway)
			return
		}
		http.Error(w, "Processing service unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *PipelineHandler) GetJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := getParam(r, "job_id")
	if jobID == "" {
		http.Error(w, "Missing job ID", http.StatusBadRequest)
		return
	}

	snap, err := h.Pipeline.Status(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, models.ErrJobNotFound) {
			http.Error(w, "Job not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Processing service unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

func (h *PipelineHandler) GetJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.Pipeline.Jobs(r.Context())
	if err != nil {
		http.Error(w, "Processing service unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"jobs": jobs, "total_jobs": len(jobs)})
}

func (h *PipelineHandler) ClearJobs(w http.ResponseWriter, r *http.Request) {
	cleared, err := h.Pipeline.ClearJobs(r.Context())
	if err != nil {
		http.Error(w, "Processing service unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"cleared": cleared})
}

func (h *PipelineHandler) GetCroppedImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.Pipeline.CroppedImages(r.Context())
	if err != nil {
		http.Error(w, "Processing service unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"images": images, "total": len(images)})
}

// GetCroppedImage proxies one crop's bytes from the processing
// service, so the browser never needs direct access to it.
func (h *PipelineHandler) GetCroppedImage(w http.ResponseWriter, r *http.Request) {
	filename := getParam(r, "filename")
	if filename == "" {
		http.Error(w, "Missing filename", http.StatusBadRequest)
		return
	}

	data, contentType, err := h.Pipeline.CroppedImage(r.Context(), filename)
	if err != nil {
		if errors.Is(err, models.ErrNoRecord) {
			http.Error(w, "Image not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Processing service unavailable", http.StatusBadGateway)
		return
	}

	if contentType == "" {
		contentType = "image/jpeg"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.Write(data)
}

func writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNoFile):
		http.Error(w, "No image file provided", http.StatusBadRequest)
	case errors.Is(err, models.ErrInvalidFileType):
		http.Error(w, "Unsupported file type", http.StatusBadRequest)
	case errors.Is(err, models.ErrFileTooLarge):
		http.Error(w, "Image exceeds the 16MB limit", http.StatusBadRequest)
	default:
		var apiErr *pipeline.APIError
		if errors.As(err, &apiErr) {
			if apiErr.Code == pipeline.CodePipelineNotAvailable || apiErr.Code == pipeline.CodePipelineInitFailed {
				http.Error(w, apiErr.Message, http.StatusServiceUnavailable)
				return
			}
			http.Error(w, apiErr.Message, http.StatusBadGateway)
			return
		}
		http.Error(w, "Failed to start processing", http.StatusBadGateway)
	}
}
