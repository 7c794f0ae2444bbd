package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"declutteredWeb/internal/models"
	"declutteredWeb/internal/services"
	"declutteredWeb/internal/session"
)

type DeclutterHandler struct {
	Declutter *services.DeclutterService
	Sessions  *session.Manager
}

type flowStateResponse struct {
	Wizard  models.WizardState  `json:"wizard"`
	Job     *models.JobSnapshot `json:"job,omitempty"`
	JobLost bool                `json:"job_lost,omitempty"`
}

// GetState returns the wizard position plus the latest job snapshot.
// The pages rebuild themselves from this after a reload.
func (h *DeclutterHandler) GetState(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	resp := flowStateResponse{Wizard: sess.Wizard}
	snap, err := h.Declutter.JobStatus(r.Context(), sess)
	switch {
	case err == nil:
		resp.Job = &snap
	case errors.Is(err, models.ErrNoActiveJob):
	case errors.Is(err, models.ErrJobNotFound):
		// The processing service forgot the job (restart, cleanup).
		// The page offers a fresh start instead of polling forever.
		resp.JobLost = true
	default:
		http.Error(w, "Processing service unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// CompleteCapture moves the flow past the capture screen once the job
// finished with something to show.
func (h *DeclutterHandler) CompleteCapture(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	if err := h.Declutter.CompleteCapture(r.Context(), sess); err != nil {
		writeFlowError(w, err)
		return
	}
	h.respondWithWizard(w, r, sess)
}

func (h *DeclutterHandler) SelectObjects(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Declutter.SelectObjects(r.Context(), sess, req.IDs); err != nil {
		writeFlowError(w, err)
		return
	}
	h.respondWithWizard(w, r, sess)
}

func (h *DeclutterHandler) ConfirmItems(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req struct {
		IDs []string `json:"ids"`
	}
	if r.Body != nil {
		// An empty body confirms everything already selected.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	if err := h.Declutter.ConfirmItems(r.Context(), sess, req.IDs); err != nil {
		writeFlowError(w, err)
		return
	}
	h.respondWithWizard(w, r, sess)
}

func (h *DeclutterHandler) EditDraft(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	var draft models.ListingDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if id := getParam(r, "cropped_id"); id != "" {
		draft.CroppedID = id
	}

	if err := h.Declutter.EditDraft(sess, draft); err != nil {
		writeFlowError(w, err)
		return
	}
	h.respondWithWizard(w, r, sess)
}

func (h *DeclutterHandler) QueuePosts(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req struct {
		Platforms []string `json:"platforms"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	result, err := h.Declutter.QueuePosts(r.Context(), sess, sess.Tokens.AccessToken, req.Platforms)
	if err != nil {
		writeFlowError(w, err)
		return
	}

	if err := h.Sessions.Update(r.Context(), sess); err != nil {
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (h *DeclutterHandler) Back(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	h.Declutter.Back(sess)
	h.respondWithWizard(w, r, sess)
}

func (h *DeclutterHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	h.Declutter.Reset(sess)
	h.respondWithWizard(w, r, sess)
}

func (h *DeclutterHandler) respondWithWizard(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := h.Sessions.Update(r.Context(), sess); err != nil {
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sess.Wizard)
}

func writeFlowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNoActiveJob):
		http.Error(w, "No active job", http.StatusBadRequest)
	case errors.Is(err, models.ErrJobNotFound):
		http.Error(w, "Job not found", http.StatusNotFound)
	case errors.Is(err, models.ErrJobNotReady):
		http.Error(w, "Job is still processing", http.StatusConflict)
	case errors.Is(err, models.ErrJobFailed):
		http.Error(w, err.Error(), http.StatusBadGateway)
	case errors.Is(err, models.ErrNoObjectsDetected):
		http.Error(w, "No resellable items detected in this photo", http.StatusBadRequest)
	case errors.Is(err, models.ErrNoSelection):
		http.Error(w, "Nothing selected", http.StatusBadRequest)
	case errors.Is(err, models.ErrUnknownObject):
		http.Error(w, "Unknown object selected", http.StatusBadRequest)
	default:
		http.Error(w, "Failed to advance the flow", http.StatusBadGateway)
	}
}
