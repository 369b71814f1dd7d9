package handlers

import (
	"path/filepath"
	"sync"
	"time"

	"media-library/internal/covers"
	"media-library/internal/enrichment"
	"media-library/internal/library"
	"media-library/internal/scanner"
	"media-library/internal/sorting"

	"github.com/gorilla/mux"
)

// Handlers holds the HTTP handler dependencies
type Handlers struct {
	idx     *library.Index
	scanner *scanner.Scanner
	sorter  *sorting.Sorter
	covers  *covers.Generator
	enrich  *enrichment.Manager

	playlistPath string
	playlistMu   sync.Mutex

	auth      *authState
	startTime time.Time
}

// New creates a new Handlers instance. The enrichment manager may be
// nil when enrichment is disabled; the cover generator carries its own
// enabled flag.
func New(
	idx *library.Index,
	scn *scanner.Scanner,
	srt *sorting.Sorter,
	cov *covers.Generator,
	enr *enrichment.Manager,
	playlistDir string,
	tokenPath string,
) *Handlers {
	return &Handlers{
		idx:          idx,
		scanner:      scn,
		sorter:       srt,
		covers:       cov,
		enrich:       enr,
		playlistPath: filepath.Join(playlistDir, "playlists.json"),
		auth:         loadAuthState(tokenPath),
		startTime:    time.Now(),
	}
}

// Router assembles the route table. Health checks, version, and metrics
// are the only routes exempt from authentication; the exemption lives
// in AuthMiddleware, not here.
func (h *Handlers) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET", "HEAD")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/version", h.GetVersion).Methods("GET")

	api.HandleFunc("/library", h.ListLibrary).Methods("GET")
	api.HandleFunc("/library/stats", h.LibraryStats).Methods("GET")

	api.HandleFunc("/sources", h.ListSources).Methods("GET")
	api.HandleFunc("/sources", h.AddSource).Methods("POST")
	api.HandleFunc("/sources", h.RemoveSource).Methods("DELETE")

	api.HandleFunc("/scan", h.TriggerScan).Methods("POST")
	api.HandleFunc("/scan/status", h.ScanStatus).Methods("GET")

	api.HandleFunc("/files/rating", h.SetRating).Methods("PUT")
	api.HandleFunc("/files/tags", h.SetTags).Methods("PUT")
	api.HandleFunc("/files/metadata", h.GetMetadata).Methods("GET")
	api.HandleFunc("/files/metadata", h.SetMetadata).Methods("PUT")

	api.HandleFunc("/playlists", h.ListPlaylists).Methods("GET")
	api.HandleFunc("/playlists/evaluate", h.PreviewPlaylist).Methods("POST")
	api.HandleFunc("/playlists/{name}", h.GetPlaylist).Methods("GET")
	api.HandleFunc("/playlists/{name}", h.PutPlaylist).Methods("PUT")
	api.HandleFunc("/playlists/{name}", h.DeletePlaylist).Methods("DELETE")
	api.HandleFunc("/playlists/{name}/evaluate", h.EvaluatePlaylist).Methods("POST")

	api.HandleFunc("/enrichment/search", h.EnrichmentSearch).Methods("GET")
	api.HandleFunc("/enrichment/apply", h.EnrichmentApply).Methods("POST")

	api.HandleFunc("/covers/{path:.*}", h.GetCover).Methods("GET")

	return r
}
