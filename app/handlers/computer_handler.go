package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"fleetmon/app/clients"
	"fleetmon/app/dto"
	"fleetmon/app/services"
	"fleetmon/app/utils"

	"github.com/gin-gonic/gin"
)

// respondJSON sends a JSON response
func respondJSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// respondError sends an error response
func respondError(c *gin.Context, status int, message string, details map[string]string) {
	c.JSON(status, dto.ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// ComputerHandler handles the dashboard-facing computer and telemetry
// endpoints. These are read translations over the store plus registry CRUD;
// an unknown computer id yields an empty or null payload, never an error,
// so the dashboard survives stale references.
type ComputerHandler struct {
	registry *services.RegistryService
	storage  clients.StorageAdapter

	now func() time.Time
}

// NewComputerHandler creates a new computer handler
func NewComputerHandler(registry *services.RegistryService, storage clients.StorageAdapter) *ComputerHandler {
	return &ComputerHandler{
		registry: registry,
		storage:  storage,
		now:      time.Now,
	}
}

// ListComputers handles GET /api/computers
func (h *ComputerHandler) ListComputers(c *gin.Context) {
	ctx := c.Request.Context()

	computers, err := h.registry.List(ctx)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list computers", nil)
		return
	}

	out := make([]dto.ComputerResponse, len(computers))
	for i, comp := range computers {
		out[i] = dto.ComputerResponse{
			ID:       comp.ID,
			Name:     comp.Name,
			URL:      comp.URL,
			LastSeen: formatTimePtr(comp.LastSeen),
			Status:   comp.Status,
		}
	}

	respondJSON(c, http.StatusOK, out)
}

// LatestStats handles GET /api/stats/:id. Returns null when the computer has
// no stored samples or does not exist.
func (h *ComputerHandler) LatestStats(c *gin.Context) {
	id, ok := h.computerID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	sample, err := h.storage.LatestStat(ctx, id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load stats", nil)
		return
	}
	if sample == nil {
		respondJSON(c, http.StatusOK, nil)
		return
	}

	respondJSON(c, http.StatusOK, dto.StatResponse{
		Timestamp:         formatTime(sample.Timestamp),
		CPUPercent:        sample.CPUPercent,
		MemoryTotal:       sample.MemoryTotal,
		MemoryUsed:        sample.MemoryUsed,
		MemoryPercent:     sample.MemoryPercent,
		DiskTotal:         sample.DiskTotal,
		DiskUsed:          sample.DiskUsed,
		DiskPercent:       sample.DiskPercent,
		NetworkBytesSent:  sample.NetworkBytesSent,
		NetworkBytesRecv:  sample.NetworkBytesRecv,
		NetworkSentPerSec: sample.NetworkSentPerSec,
		NetworkRecvPerSec: sample.NetworkRecvPerSec,
	})
}

// History handles GET /api/history/:id?hours=N (default 24)
func (h *ComputerHandler) History(c *gin.Context) {
	id, ok := h.computerID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	hours := 24
	if hoursStr := c.Query("hours"); hoursStr != "" {
		if v, err := strconv.Atoi(hoursStr); err == nil && v > 0 {
			hours = v
		}
	}

	since := h.now().Add(-time.Duration(hours) * time.Hour)
	samples, err := h.storage.StatHistory(ctx, id, since)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load history", nil)
		return
	}

	out := make([]dto.HistoryPoint, len(samples))
	for i, s := range samples {
		out[i] = dto.HistoryPoint{
			Timestamp:     formatTime(s.Timestamp),
			CPUPercent:    s.CPUPercent,
			MemoryPercent: s.MemoryPercent,
			DiskPercent:   s.DiskPercent,
		}
	}

	respondJSON(c, http.StatusOK, out)
}

// NetworkGraph handles GET /api/network_graph/:id over the trailing 24 hours
func (h *ComputerHandler) NetworkGraph(c *gin.Context) {
	id, ok := h.computerID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	samples, err := h.storage.StatHistory(ctx, id, h.now().Add(-24*time.Hour))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load network data", nil)
		return
	}

	data := make([]dto.NetworkPoint, len(samples))
	for i, s := range samples {
		data[i] = dto.NetworkPoint{
			Timestamp:  formatTime(s.Timestamp),
			SentPerSec: s.NetworkSentPerSec,
			RecvPerSec: s.NetworkRecvPerSec,
			TotalSent:  s.NetworkBytesSent,
			TotalRecv:  s.NetworkBytesRecv,
		}
	}

	respondJSON(c, http.StatusOK, dto.NetworkGraphResponse{
		ComputerName: h.computerName(c, id),
		Data:         data,
	})
}

// CPUGraph handles GET /api/cpu_graph/:id over the trailing 24 hours
func (h *ComputerHandler) CPUGraph(c *gin.Context) {
	id, ok := h.computerID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	samples, err := h.storage.StatHistory(ctx, id, h.now().Add(-24*time.Hour))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load cpu data", nil)
		return
	}

	data := make([]dto.CPUPoint, len(samples))
	for i, s := range samples {
		data[i] = dto.CPUPoint{
			Timestamp:  formatTime(s.Timestamp),
			CPUPercent: s.CPUPercent,
		}
	}

	respondJSON(c, http.StatusOK, dto.CPUGraphResponse{
		ComputerName: h.computerName(c, id),
		Data:         data,
	})
}

// Processes handles GET /api/processes/:id — top processes seen within the
// last five minutes.
func (h *ComputerHandler) Processes(c *gin.Context) {
	id, ok := h.computerID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	processes, err := h.storage.LatestProcesses(ctx, id, 5*time.Minute)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load processes", nil)
		return
	}

	now := h.now()
	out := make([]dto.ProcessEntry, len(processes))
	for i, p := range processes {
		uptimeHours := 0.0
		if p.CreateTime > 0 {
			uptimeHours = (float64(now.Unix()) - p.CreateTime) / 3600
		}
		out[i] = dto.ProcessEntry{
			PID:           p.PID,
			Name:          p.Name,
			CPUPercent:    round(p.CPUPercent, 1),
			MemoryPercent: round(p.MemoryPercent, 2),
			UptimeHours:   round(uptimeHours, 1),
		}
	}

	respondJSON(c, http.StatusOK, dto.ProcessesResponse{
		ComputerName: h.computerName(c, id),
		Processes:    out,
	})
}

// AddComputer handles POST /api/add_computer
func (h *ComputerHandler) AddComputer(c *gin.Context) {
	var req dto.AddComputerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		respondError(c, http.StatusBadRequest, "missing required fields", map[string]string{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.registry.Upsert(ctx, req.Name, req.URL, req.Token); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to add computer", nil)
		return
	}

	respondJSON(c, http.StatusOK, dto.MessageResponse{Message: "Computer added successfully"})
}

// RemoveComputer handles DELETE /api/remove_computer/:id
func (h *ComputerHandler) RemoveComputer(c *gin.Context) {
	id, ok := h.computerID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	comp, err := h.registry.Remove(ctx, id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to remove computer", nil)
		return
	}
	if comp == nil {
		respondError(c, http.StatusNotFound, "computer not found", nil)
		return
	}

	respondJSON(c, http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("Computer %q removed successfully", comp.Name),
	})
}

// computerID parses the :id path parameter; responds 400 and returns false
// on a non-numeric id.
func (h *ComputerHandler) computerID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid computer id", nil)
		return 0, false
	}
	return id, true
}

// computerName resolves a computer's display name, falling back to "Unknown"
// for ids that no longer exist.
func (h *ComputerHandler) computerName(c *gin.Context, id int64) string {
	comp, err := h.registry.Get(c.Request.Context(), id)
	if err != nil || comp == nil {
		return "Unknown"
	}
	return comp.Name
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func round(v float64, decimals int) float64 {
	scale := math.Pow10(decimals)
	return math.Round(v*scale) / scale
}
