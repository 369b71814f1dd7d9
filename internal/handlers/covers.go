package handlers

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"media-library/internal/logging"
	"media-library/internal/mediatypes"

	"github.com/gorilla/mux"
)

// GetCover serves the JPEG cover for a library file. The URL tail is
// the absolute file path without its leading slash; only paths under a
// registered source are served.
func (h *Handlers) GetCover(w http.ResponseWriter, r *http.Request) {
	if !h.covers.Enabled() {
		writeJSONError(w, "covers are disabled", http.StatusServiceUnavailable)
		return
	}

	abs := filepath.Clean("/" + mux.Vars(r)["path"])
	if !h.underSource(r, abs) {
		writeJSONError(w, "path is not in the library", http.StatusNotFound)
		return
	}

	kind := mediatypes.InferKind(abs)
	data, err := h.covers.Cover(abs, kind)
	if err != nil {
		logging.Debug("cover generation failed for %s: %v", abs, err)
		writeJSONError(w, "no cover available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := w.Write(data); err != nil {
		logging.Debug("failed to write cover response: %v", err)
	}
}

// underSource reports whether abs lives inside a registered source root.
func (h *Handlers) underSource(r *http.Request, abs string) bool {
	sources, err := h.idx.ListSources(r.Context())
	if err != nil {
		logging.Error("failed to list sources: %v", err)
		return false
	}
	for _, s := range sources {
		root := strings.TrimSuffix(s.Path, string(filepath.Separator))
		if abs == root || strings.HasPrefix(abs, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
