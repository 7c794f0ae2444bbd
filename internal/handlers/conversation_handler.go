package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"declutteredWeb/internal/models"
	"declutteredWeb/internal/services"
)

type ConversationHandler struct {
	Conversations *services.ConversationService
}

func (h *ConversationHandler) GetConversations(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	resp, err := h.Conversations.ConversationsForUser(r.Context(), sess.Tokens.AccessToken, sess.Account.ID)
	if err != nil {
		http.Error(w, "Failed to retrieve conversations", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *ConversationHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	conversationID, err := strconv.Atoi(getParam(r, "id"))
	if err != nil || conversationID <= 0 {
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}
	pageSize, err := strconv.Atoi(r.URL.Query().Get("page_size"))
	if err != nil || pageSize <= 0 {
		pageSize = 50
	}

	resp, err := h.Conversations.Messages(r.Context(), sess.Tokens.AccessToken, conversationID, page, pageSize)
	if err != nil {
		if errors.Is(err, models.ErrConversationNotFound) {
			http.Error(w, "Conversation not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to retrieve messages", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *ConversationHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	conversationID, err := strconv.Atoi(getParam(r, "id"))
	if err != nil || conversationID <= 0 {
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		http.Error(w, "Message text is required", http.StatusBadRequest)
		return
	}

	msg, err := h.Conversations.SendReply(r.Context(), sess.Tokens.AccessToken, conversationID, req.Text)
	if err != nil {
		if errors.Is(err, models.ErrConversationNotFound) {
			http.Error(w, "Conversation not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to send message", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(msg)
}

// GenerateDraft asks the assistant for a reply suggestion. The client
// shows it in the compose box; nothing is sent until the seller says so.
func (h *ConversationHandler) GenerateDraft(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	conversationID, err := strconv.Atoi(getParam(r, "id"))
	if err != nil || conversationID <= 0 {
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	draft, err := h.Conversations.DraftReply(r.Context(), sess.Tokens.AccessToken, conversationID)
	if err != nil {
		if errors.Is(err, models.ErrConversationNotFound) {
			http.Error(w, "Conversation not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to generate draft", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"draft": draft})
}
