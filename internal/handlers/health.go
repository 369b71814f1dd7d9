package handlers

import (
	"net/http"
	"runtime"
	"time"

	"media-library/internal/logging"
	"media-library/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime"`
	Scanning bool   `json:"scanning"`
	LastScan string `json:"lastScan,omitempty"`

	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`

	TotalFiles   int `json:"totalFiles"`
	TotalSources int `json:"totalSources"`
}

// HealthCheck reports service health. The index is opened before the
// server starts listening, so a reachable server is a healthy one; a
// failing stats query degrades the status instead.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:       statusHealthy,
		Version:      startup.Version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		Scanning:     h.scanner.Scanning(),
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	if last := h.scanner.LastScan(); !last.IsZero() {
		response.LastScan = last.Format(time.RFC3339)
	}

	stats, err := h.idx.Stats(r.Context())
	if err != nil {
		logging.Warn("health check stats query failed: %v", err)
		response.Status = statusDegraded
	} else {
		response.TotalFiles = stats.TotalFiles
		response.TotalSources = stats.TotalSources
	}

	w.Header().Set("Content-Type", "application/json")
	if response.Status != statusHealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	if r.Method != http.MethodHead {
		writeJSON(w, response)
	}
}

// LivenessCheck is a simple liveness probe
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if r.Method != http.MethodHead {
		writeJSONStatus(w, "alive")
	}
}

// ReadinessCheck returns 200 only when the index answers queries.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if _, err := h.idx.Stats(r.Context()); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		writeJSONStatus(w, "not_ready")
		return
	}
	writeJSONStatus(w, "ready")
}
