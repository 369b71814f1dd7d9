package handlers

import (
	"errors"
	"net/http"
	"strings"

	"media-library/internal/library"
	"media-library/internal/logging"
	"media-library/internal/smartplaylist"

	"github.com/gorilla/mux"
)

// EvaluationResponse is the result of running a smart playlist.
type EvaluationResponse struct {
	Name    string          `json:"name,omitempty"`
	Entries []library.Entry `json:"entries"`
	Count   int             `json:"count"`
}

// loadPlaylists reads the playlist store. Callers must hold playlistMu.
func (h *Handlers) loadPlaylists() ([]smartplaylist.SmartPlaylist, error) {
	return smartplaylist.Load(h.playlistPath)
}

// savePlaylists writes the playlist store. Callers must hold playlistMu.
func (h *Handlers) savePlaylists(playlists []smartplaylist.SmartPlaylist) error {
	return smartplaylist.Save(h.playlistPath, playlists)
}

// ListPlaylists returns every stored smart playlist.
func (h *Handlers) ListPlaylists(w http.ResponseWriter, _ *http.Request) {
	h.playlistMu.Lock()
	playlists, err := h.loadPlaylists()
	h.playlistMu.Unlock()

	if err != nil {
		logging.Error("failed to load playlists: %v", err)
		writeJSONError(w, "failed to load playlists", http.StatusInternalServerError)
		return
	}
	if playlists == nil {
		playlists = []smartplaylist.SmartPlaylist{}
	}
	writeJSON(w, playlists)
}

// GetPlaylist returns one playlist by name.
func (h *Handlers) GetPlaylist(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	h.playlistMu.Lock()
	playlists, err := h.loadPlaylists()
	h.playlistMu.Unlock()

	if err != nil {
		logging.Error("failed to load playlists: %v", err)
		writeJSONError(w, "failed to load playlists", http.StatusInternalServerError)
		return
	}

	for _, p := range playlists {
		if p.Name == name {
			writeJSON(w, p)
			return
		}
	}
	writeJSONError(w, "playlist not found", http.StatusNotFound)
}

// PutPlaylist creates or replaces a playlist. The name in the URL is
// authoritative; a differing name in the body is overwritten.
func (h *Handlers) PutPlaylist(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(mux.Vars(r)["name"])
	if name == "" {
		writeJSONError(w, "playlist name is required", http.StatusBadRequest)
		return
	}

	var playlist smartplaylist.SmartPlaylist
	if err := decodeJSONBody(r, &playlist); err != nil {
		writeJSONError(w, "invalid playlist body: "+err.Error(), http.StatusBadRequest)
		return
	}
	playlist.Name = name

	if err := playlist.Validate(); err != nil {
		writeJSONError(w, "invalid playlist: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.playlistMu.Lock()
	defer h.playlistMu.Unlock()

	playlists, err := h.loadPlaylists()
	if err != nil {
		logging.Error("failed to load playlists: %v", err)
		writeJSONError(w, "failed to load playlists", http.StatusInternalServerError)
		return
	}

	replaced := false
	for i, p := range playlists {
		if p.Name == name {
			playlists[i] = playlist
			replaced = true
			break
		}
	}
	if !replaced {
		playlists = append(playlists, playlist)
	}

	if err := h.savePlaylists(playlists); err != nil {
		logging.Error("failed to save playlists: %v", err)
		writeJSONError(w, "failed to save playlists", http.StatusInternalServerError)
		return
	}

	if replaced {
		writeJSONStatus(w, "updated")
	} else {
		w.WriteHeader(http.StatusCreated)
		writeJSONStatus(w, "created")
	}
}

// DeletePlaylist removes a playlist by name.
func (h *Handlers) DeletePlaylist(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	h.playlistMu.Lock()
	defer h.playlistMu.Unlock()

	playlists, err := h.loadPlaylists()
	if err != nil {
		logging.Error("failed to load playlists: %v", err)
		writeJSONError(w, "failed to load playlists", http.StatusInternalServerError)
		return
	}

	kept := playlists[:0]
	found := false
	for _, p := range playlists {
		if p.Name == name {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		writeJSONError(w, "playlist not found", http.StatusNotFound)
		return
	}

	if err := h.savePlaylists(kept); err != nil {
		logging.Error("failed to save playlists: %v", err)
		writeJSONError(w, "failed to save playlists", http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, "deleted")
}

// EvaluatePlaylist runs a stored playlist against the current index.
func (h *Handlers) EvaluatePlaylist(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	h.playlistMu.Lock()
	playlists, err := h.loadPlaylists()
	h.playlistMu.Unlock()

	if err != nil {
		logging.Error("failed to load playlists: %v", err)
		writeJSONError(w, "failed to load playlists", http.StatusInternalServerError)
		return
	}

	for _, p := range playlists {
		if p.Name == name {
			h.evaluate(w, r, p)
			return
		}
	}
	writeJSONError(w, "playlist not found", http.StatusNotFound)
}

// PreviewPlaylist runs an ad-hoc playlist from the request body without
// storing it. Used by editors to show live results while rules are
// being composed.
func (h *Handlers) PreviewPlaylist(w http.ResponseWriter, r *http.Request) {
	var playlist smartplaylist.SmartPlaylist
	if err := decodeJSONBody(r, &playlist); err != nil {
		writeJSONError(w, "invalid playlist body: "+err.Error(), http.StatusBadRequest)
		return
	}
	h.evaluate(w, r, playlist)
}

func (h *Handlers) evaluate(w http.ResponseWriter, r *http.Request, playlist smartplaylist.SmartPlaylist) {
	entries, err := h.idx.Entries(r.Context(), 0)
	if err != nil {
		logging.Error("failed to list library entries: %v", err)
		writeJSONError(w, "failed to list library", http.StatusInternalServerError)
		return
	}

	result, err := smartplaylist.Evaluate(
		r.Context(),
		playlist,
		entries,
		h.idx,
		h.idx.Attributes,
		h.sorter.Func(r.Context()),
	)
	if err != nil {
		if errors.Is(err, smartplaylist.ErrUnsupportedOp) || errors.Is(err, smartplaylist.ErrInvalidMatch) {
			writeJSONError(w, "invalid playlist: "+err.Error(), http.StatusBadRequest)
			return
		}
		logging.Error("playlist evaluation failed: %v", err)
		writeJSONError(w, "evaluation failed", http.StatusInternalServerError)
		return
	}
	if result == nil {
		result = []library.Entry{}
	}

	writeJSON(w, EvaluationResponse{Name: playlist.Name, Entries: result, Count: len(result)})
}
