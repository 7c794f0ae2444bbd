package handlers

import (
	"encoding/json"
	"net/http"

	"declutteredWeb/internal/services"
)

type DashboardHandler struct {
	Dashboard *services.DashboardService
}

func (h *DashboardHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	overview, err := h.Dashboard.Overview(r.Context(), sess.Tokens.AccessToken, sess.Account.ID)
	if err != nil {
		http.Error(w, "Failed to load dashboard", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(overview)
}
