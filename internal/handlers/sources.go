package handlers

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"media-library/internal/logging"
)

type sourceRequest struct {
	Path string `json:"path"`
}

// ListSources returns the registered source roots.
func (h *Handlers) ListSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.idx.ListSources(r.Context())
	if err != nil {
		logging.Error("failed to list sources: %v", err)
		writeJSONError(w, "failed to list sources", http.StatusInternalServerError)
		return
	}
	writeJSON(w, sources)
}

// AddSource registers a new source root and kicks off a scan of it.
func (h *Handlers) AddSource(w http.ResponseWriter, r *http.Request) {
	var req sourceRequest
	if err := decodeJSONBody(r, &req); err != nil || req.Path == "" {
		writeJSONError(w, "request body must be {\"path\": \"...\"}", http.StatusBadRequest)
		return
	}

	abs, err := filepath.Abs(req.Path)
	if err != nil {
		writeJSONError(w, "invalid path", http.StatusBadRequest)
		return
	}

	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		writeJSONError(w, "path is not an existing directory", http.StatusBadRequest)
		return
	}

	if _, err := h.idx.AddSource(r.Context(), abs); err != nil {
		logging.Error("failed to add source %s: %v", abs, err)
		writeJSONError(w, "failed to add source", http.StatusInternalServerError)
		return
	}

	// The scan outlives the request, so detach it from the request context.
	scanCtx := context.WithoutCancel(r.Context())
	go func() {
		if _, err := h.scanner.ScanSource(scanCtx, abs); err != nil {
			logging.Warn("initial scan of %s failed: %v", abs, err)
		}
	}()

	w.WriteHeader(http.StatusCreated)
	writeJSONStatus(w, "created")
}

// RemoveSource unregisters a source root. Indexed files under it are
// removed with it.
func (h *Handlers) RemoveSource(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		var req sourceRequest
		if err := decodeJSONBody(r, &req); err == nil {
			path = req.Path
		}
	}
	if path == "" {
		writeJSONError(w, "path is required", http.StatusBadRequest)
		return
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		writeJSONError(w, "invalid path", http.StatusBadRequest)
		return
	}

	if err := h.idx.RemoveSource(r.Context(), abs); err != nil {
		logging.Error("failed to remove source %s: %v", abs, err)
		writeJSONError(w, "failed to remove source", http.StatusInternalServerError)
		return
	}

	writeJSONStatus(w, "removed")
}
