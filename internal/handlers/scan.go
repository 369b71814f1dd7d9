package handlers

import (
	"context"
	"net/http"
	"time"

	"media-library/internal/logging"
)

// ScanStatusResponse reports scanner state.
type ScanStatusResponse struct {
	Scanning bool   `json:"scanning"`
	LastScan string `json:"lastScan,omitempty"`
}

// TriggerScan starts a scan of every registered source in the
// background. Returns 409 when a scan is already running.
func (h *Handlers) TriggerScan(w http.ResponseWriter, r *http.Request) {
	if h.scanner.Scanning() {
		writeJSONError(w, "scan already in progress", http.StatusConflict)
		return
	}

	scanCtx := context.WithoutCancel(r.Context())
	go func() {
		result, err := h.scanner.ScanAll(scanCtx)
		if err != nil {
			logging.Warn("scan failed: %v", err)
			return
		}
		logging.Info("Scan complete: %d files, %d removed, %d errors in %v",
			result.Files, result.Removed, result.Errors, result.Duration)
	}()

	w.WriteHeader(http.StatusAccepted)
	writeJSONStatus(w, "scan started")
}

// ScanStatus reports whether a scan is running and when the last one
// finished.
func (h *Handlers) ScanStatus(w http.ResponseWriter, _ *http.Request) {
	resp := ScanStatusResponse{Scanning: h.scanner.Scanning()}
	if last := h.scanner.LastScan(); !last.IsZero() {
		resp.LastScan = last.Format(time.RFC3339)
	}
	writeJSON(w, resp)
}
