package handlers

import (
	"net/http"

	"media-library/internal/enrichment"
	"media-library/internal/logging"
	"media-library/internal/metadata"
)

type enrichmentApplyRequest struct {
	Path      string               `json:"path"`
	Candidate enrichment.Candidate `json:"candidate"`
	Score     float64              `json:"score"`
}

// EnrichmentSearch queries metadata providers for candidates matching
// a free-form query. When a library path is given, its existing
// metadata biases the ranking toward plausible matches.
func (h *Handlers) EnrichmentSearch(w http.ResponseWriter, r *http.Request) {
	if h.enrich == nil {
		writeJSONError(w, "enrichment is disabled", http.StatusServiceUnavailable)
		return
	}

	query := r.URL.Query().Get("query")
	if query == "" {
		writeJSONError(w, "query is required", http.StatusBadRequest)
		return
	}
	mediaType := r.URL.Query().Get("type")

	var hint *metadata.Fields
	if path := r.URL.Query().Get("path"); path != "" {
		abs, ok := h.resolveLibraryPath(w, path)
		if !ok {
			return
		}
		if fields, err := h.idx.Lookup(r.Context(), abs); err == nil && !fields.IsZero() {
			hint = &fields
		}
	}

	ranked, err := h.enrich.Search(r.Context(), query, mediaType, hint)
	if err != nil {
		logging.Error("enrichment search failed: %v", err)
		writeJSONError(w, "enrichment search failed", http.StatusBadGateway)
		return
	}
	if ranked == nil {
		ranked = []enrichment.Ranked{}
	}
	writeJSON(w, ranked)
}

// EnrichmentApply merges a chosen candidate into a file's existing
// metadata, filling only fields the user has not set.
func (h *Handlers) EnrichmentApply(w http.ResponseWriter, r *http.Request) {
	if h.enrich == nil {
		writeJSONError(w, "enrichment is disabled", http.StatusServiceUnavailable)
		return
	}

	var req enrichmentApplyRequest
	if err := decodeJSONBody(r, &req); err != nil || req.Path == "" {
		writeJSONError(w, "request body must be {\"path\": \"...\", \"candidate\": {...}}", http.StatusBadRequest)
		return
	}

	abs, ok := h.resolveLibraryPath(w, req.Path)
	if !ok {
		return
	}

	existing, err := h.idx.Lookup(r.Context(), abs)
	if err != nil {
		h.writeAttributeError(w, "failed to load metadata", abs, err)
		return
	}

	merged := enrichment.Merge(existing, enrichment.Ranked{Candidate: req.Candidate, Score: req.Score})
	if err := h.idx.SetTrackMetadata(r.Context(), abs, merged); err != nil {
		h.writeAttributeError(w, "failed to apply metadata", abs, err)
		return
	}

	writeJSON(w, merged)
}
