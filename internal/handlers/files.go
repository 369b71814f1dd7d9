package handlers

import (
	"errors"
	"net/http"
	"path/filepath"

	"media-library/internal/library"
	"media-library/internal/logging"
	"media-library/internal/metadata"
)

type ratingRequest struct {
	Path   string `json:"path"`
	Rating *int   `json:"rating"`
}

type tagsRequest struct {
	Path string   `json:"path"`
	Tags []string `json:"tags"`
}

type metadataRequest struct {
	Path   string          `json:"path"`
	Fields metadata.Fields `json:"fields"`
}

// FileMetadataResponse combines track metadata with user attributes.
type FileMetadataResponse struct {
	Path   string          `json:"path"`
	Fields metadata.Fields `json:"fields"`
	Rating *int            `json:"rating,omitempty"`
	Tags   []string        `json:"tags,omitempty"`
}

// SetRating stores a 0-5 star rating for a file. A null rating clears it.
func (h *Handlers) SetRating(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if err := decodeJSONBody(r, &req); err != nil || req.Path == "" {
		writeJSONError(w, "request body must be {\"path\": \"...\", \"rating\": 0-5|null}", http.StatusBadRequest)
		return
	}
	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 5) {
		writeJSONError(w, "rating must be between 0 and 5", http.StatusBadRequest)
		return
	}

	abs, ok := h.resolveLibraryPath(w, req.Path)
	if !ok {
		return
	}

	if err := h.idx.SetRating(r.Context(), abs, req.Rating); err != nil {
		h.writeAttributeError(w, "failed to set rating", abs, err)
		return
	}
	writeJSONStatus(w, "ok")
}

// SetTags replaces the tag set of a file.
func (h *Handlers) SetTags(w http.ResponseWriter, r *http.Request) {
	var req tagsRequest
	if err := decodeJSONBody(r, &req); err != nil || req.Path == "" {
		writeJSONError(w, "request body must be {\"path\": \"...\", \"tags\": [...]}", http.StatusBadRequest)
		return
	}

	abs, ok := h.resolveLibraryPath(w, req.Path)
	if !ok {
		return
	}

	if err := h.idx.SetTags(r.Context(), abs, req.Tags); err != nil {
		h.writeAttributeError(w, "failed to set tags", abs, err)
		return
	}
	writeJSONStatus(w, "ok")
}

// GetMetadata returns track metadata and user attributes for one file.
func (h *Handlers) GetMetadata(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSONError(w, "path is required", http.StatusBadRequest)
		return
	}

	abs, ok := h.resolveLibraryPath(w, path)
	if !ok {
		return
	}

	fields, err := h.idx.Lookup(r.Context(), abs)
	if err != nil {
		logging.Error("failed to look up metadata for %s: %v", abs, err)
		writeJSONError(w, "failed to load metadata", http.StatusInternalServerError)
		return
	}
	rating, tags := h.idx.Attributes(r.Context(), abs)

	writeJSON(w, FileMetadataResponse{
		Path:   abs,
		Fields: fields,
		Rating: rating,
		Tags:   tags,
	})
}

// SetMetadata stores track metadata for one file.
func (h *Handlers) SetMetadata(w http.ResponseWriter, r *http.Request) {
	var req metadataRequest
	if err := decodeJSONBody(r, &req); err != nil || req.Path == "" {
		writeJSONError(w, "request body must be {\"path\": \"...\", \"fields\": {...}}", http.StatusBadRequest)
		return
	}

	abs, ok := h.resolveLibraryPath(w, req.Path)
	if !ok {
		return
	}

	if err := h.idx.SetTrackMetadata(r.Context(), abs, req.Fields); err != nil {
		h.writeAttributeError(w, "failed to set metadata", abs, err)
		return
	}
	writeJSONStatus(w, "ok")
}

// writeAttributeError maps index errors to HTTP statuses: unknown files
// are 404, everything else is a server fault.
func (h *Handlers) writeAttributeError(w http.ResponseWriter, message, abs string, err error) {
	if errors.Is(err, library.ErrUnknownFile) {
		writeJSONError(w, "file not indexed: "+abs, http.StatusNotFound)
		return
	}
	logging.Error("%s for %s: %v", message, abs, err)
	writeJSONError(w, message, http.StatusInternalServerError)
}

// resolveLibraryPath makes the path absolute and rejects anything with
// traversal segments. Existence under a registered source is enforced
// by the index lookups themselves.
func (h *Handlers) resolveLibraryPath(w http.ResponseWriter, path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil || abs != filepath.Clean(abs) {
		writeJSONError(w, "invalid path", http.StatusBadRequest)
		return "", false
	}
	return abs, true
}
