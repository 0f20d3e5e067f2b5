package api

import (
	"net/http"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status" msgpack:"status"`
	Message string `json:"message" msgpack:"message"`
}

// HandleHealth handles GET requests to the health check endpoint
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeResponse(w, r, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Message: "go-index is running",
	})
}

// HandleStats reports memory usage and index statistics
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	h.writeResponse(w, r, http.StatusOK, h.storage.GetMemoryStats())
}
