package handlers

import (
	"encoding/json"
	"net/http"

	"declutteredWeb/internal/pipeline"
)

type HealthHandler struct {
	Pipeline *pipeline.Client
}

type healthResponse struct {
	Status              string `json:"status"`
	Service             string `json:"service"`
	PipelineAvailable   bool   `json:"pipeline_available"`
	PipelineInitialized bool   `json:"pipeline_initialized"`
}

// Health reports our own liveness plus whether the processing service
// answers. A dead pipeline degrades the payload, not the status code:
// the web app itself is still up.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Service: "decluttered-web"}

	if status, err := h.Pipeline.Health(r.Context()); err == nil {
		resp.PipelineAvailable = status.PipelineAvailable
		resp.PipelineInitialized = status.PipelineInitialized
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
