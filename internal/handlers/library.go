package handlers

import (
	"net/http"
	"strconv"

	"media-library/internal/logging"
)

// LibraryResponse wraps library entries with a count for clients that
// paginate.
type LibraryResponse struct {
	Entries interface{} `json:"entries"`
	Count   int         `json:"count"`
	Sort    string      `json:"sort,omitempty"`
}

// ListLibrary returns indexed entries, newest first. Optional query
// parameters: limit caps the result, sort applies a sort key before
// the limit.
func (h *Handlers) ListLibrary(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil || parsed < 0 {
			writeJSONError(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}
	sortKey := r.URL.Query().Get("sort")

	// When sorting, fetch everything and truncate after; the database
	// orders by insertion, not by the requested key.
	fetchLimit := limit
	if sortKey != "" {
		fetchLimit = 0
	}

	entries, err := h.idx.Entries(r.Context(), fetchLimit)
	if err != nil {
		logging.Error("failed to list library entries: %v", err)
		writeJSONError(w, "failed to list library", http.StatusInternalServerError)
		return
	}

	if sortKey != "" {
		entries = h.sorter.Apply(r.Context(), sortKey, entries)
		if limit > 0 && limit < len(entries) {
			entries = entries[:limit]
		}
	}

	writeJSON(w, LibraryResponse{Entries: entries, Count: len(entries), Sort: sortKey})
}

// LibraryStats returns index totals grouped by media kind.
func (h *Handlers) LibraryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.idx.Stats(r.Context())
	if err != nil {
		logging.Error("failed to load library stats: %v", err)
		writeJSONError(w, "failed to load stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, stats)
}
