package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"declutteredWeb/internal/models"
	"declutteredWeb/internal/services"
)

type ListingHandler struct {
	Listings *services.ListingService
}

func (h *ListingHandler) GetListings(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	resp, err := h.Listings.ListingsForUser(r.Context(), sess.Tokens.AccessToken, sess.Account.ID)
	if err != nil {
		http.Error(w, "Failed to retrieve listings", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req models.CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}

	created, err := h.Listings.CreateListings(r.Context(), sess.Tokens.AccessToken, sess.Account.ID, []models.CreateListingRequest{req})
	if err != nil {
		http.Error(w, "Failed to create listing", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if len(created) == 1 {
		json.NewEncoder(w).Encode(created[0])
		return
	}
	json.NewEncoder(w).Encode(created)
}

func (h *ListingHandler) UpdateListingStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	id, err := strconv.Atoi(getParam(r, "id"))
	if err != nil || id <= 0 {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}

	var req models.UpdateListingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	listing, err := h.Listings.UpdateStatus(r.Context(), sess.Tokens.AccessToken, id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidStatus):
			http.Error(w, "Unknown listing status", http.StatusBadRequest)
		case errors.Is(err, models.ErrListingNotFound):
			http.Error(w, "Listing not found", http.StatusNotFound)
		default:
			http.Error(w, "Failed to update listing", http.StatusBadGateway)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listing)
}

// AttachVideo stores a walkthrough clip against an existing listing.
func (h *ListingHandler) AttachVideo(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	id, err := strconv.Atoi(getParam(r, "id"))
	if err != nil || id <= 0 {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, services.MaxVideoBytes+1<<20)
	if err := r.ParseMultipartForm(4 << 20); err != nil {
		http.Error(w, "Video too large or malformed upload", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		http.Error(w, "No video file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read upload", http.StatusBadRequest)
		return
	}

	listing, err := h.Listings.AttachVideo(r.Context(), sess.Tokens.AccessToken, sess.Account.ID, id, header.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrListingNotFound):
			http.Error(w, "Listing not found", http.StatusNotFound)
		case errors.Is(err, models.ErrInvalidFileType):
			http.Error(w, "Unsupported video type", http.StatusBadRequest)
		case errors.Is(err, models.ErrFileTooLarge):
			http.Error(w, "Video exceeds the 64MB limit", http.StatusBadRequest)
		case errors.Is(err, models.ErrNoFile):
			http.Error(w, "No video file provided", http.StatusBadRequest)
		default:
			http.Error(w, "Failed to store video", http.StatusBadGateway)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listing)
}

func (h *ListingHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	id, err := strconv.Atoi(getParam(r, "id"))
	if err != nil || id <= 0 {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}

	if err := h.Listings.DeleteListing(r.Context(), sess.Tokens.AccessToken, id); err != nil {
		if errors.Is(err, models.ErrListingNotFound) {
			http.Error(w, "Listing not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete listing", http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
