package handlers

import (
	"net/http"

	"fleetmon/app/clients"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	storage clients.StorageAdapter
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(storage clients.StorageAdapter) *HealthHandler {
	return &HealthHandler{
		storage: storage,
	}
}

// Health handles liveness checks
func (h *HealthHandler) Health(c *gin.Context) {
	respondJSON(c, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles readiness checks; ready means the store answers a ping
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.storage.Ping(c.Request.Context()); err != nil {
		respondError(c, http.StatusServiceUnavailable, "storage unavailable", nil)
		return
	}
	respondJSON(c, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
