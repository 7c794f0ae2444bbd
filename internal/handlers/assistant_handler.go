package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"declutteredWeb/internal/assistant"
	"declutteredWeb/internal/models"
	"declutteredWeb/internal/services"
)

type AssistantHandler struct {
	Assistant *services.AssistantService
}

type chatMessageRequest struct {
	Message string                  `json:"message"`
	History []assistant.ChatMessage `json:"history"`
}

// SendMessage streams the assistant's reply as plain text chunks. The
// dashboard context rides along server side, so the browser only sends
// the prompt and the visible history.
func (h *AssistantHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req chatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		http.Error(w, "Message is required", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	msgReq := h.Assistant.BuildMessageRequest(r.Context(), sess.Tokens.AccessToken, sess.Account.ID, req.Message, req.History)

	wrote := false
	err := h.Assistant.Stream(r.Context(), msgReq, func(chunk string) {
		if !wrote {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Header().Set("Cache-Control", "no-cache")
			wrote = true
		}
		w.Write([]byte(chunk))
		flusher.Flush()
	})
	if err != nil && !wrote {
		if errors.Is(err, models.ErrAssistantUnavailable) {
			http.Error(w, "Assistant is unavailable right now", http.StatusBadGateway)
			return
		}
		http.Error(w, "Failed to reach the assistant", http.StatusBadGateway)
	}
}

func (h *AssistantHandler) GenerateDraft(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentSession(w, r); !ok {
		return
	}

	var req assistant.DraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	draft, err := h.Assistant.Draft(r.Context(), req)
	if err != nil {
		http.Error(w, "Failed to generate draft", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"draft": draft})
}
