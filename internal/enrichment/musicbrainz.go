package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"media-library/internal/logging"
)

const (
	mbDefaultBaseURL = "https://musicbrainz.org/ws/2"

	// MusicBrainz asks anonymous clients to stay at or below one
	// request per second.
	mbMinRequestGap = time.Second

	mbSearchLimit = 10
)

// MusicBrainz queries the MusicBrainz ws/2 recording search.
type MusicBrainz struct {
	baseURL   string
	userAgent string
	client    *http.Client

	mu       sync.Mutex
	lastCall time.Time
}

// MusicBrainzOption adjusts client construction.
type MusicBrainzOption func(*MusicBrainz)

// WithBaseURL overrides the ws/2 endpoint. Tests point this at a local
// server.
func WithBaseURL(base string) MusicBrainzOption {
	return func(mb *MusicBrainz) { mb.baseURL = base }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(c *http.Client) MusicBrainzOption {
	return func(mb *MusicBrainz) { mb.client = c }
}

// NewMusicBrainz creates a ws/2 client. userAgent must identify the
// application per the MusicBrainz API rules.
func NewMusicBrainz(userAgent string, opts ...MusicBrainzOption) *MusicBrainz {
	mb := &MusicBrainz{
		baseURL:   mbDefaultBaseURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(mb)
	}
	return mb
}

// Name implements Provider.
func (mb *MusicBrainz) Name() string { return "musicbrainz" }

// recording mirrors the subset of the ws/2 search response we consume.
type mbRecording struct {
	ID           string `json:"id"`
	Score        int    `json:"score"`
	Title        string `json:"title"`
	Length       int    `json:"length"`
	FirstRelease string `json:"first-release-date"`
	ArtistCredit []struct {
		Name string `json:"name"`
	} `json:"artist-credit"`
	Releases []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"releases"`
}

type mbSearchResponse struct {
	Recordings []mbRecording `json:"recordings"`
}

// Search implements Provider against the recording endpoint.
func (mb *MusicBrainz) Search(ctx context.Context, query, mediaType string) ([]Candidate, error) {
	if err := mb.throttle(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/recording?query=%s&fmt=json&limit=%d",
		mb.baseURL, url.QueryEscape(query), mbSearchLimit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", mb.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := mb.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("musicbrainz request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("musicbrainz returned status %d", resp.StatusCode)
	}

	var parsed mbSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode musicbrainz response: %w", err)
	}

	candidates := make([]Candidate, 0, len(parsed.Recordings))
	for _, rec := range parsed.Recordings {
		candidates = append(candidates, mb.toCandidate(rec))
	}
	logging.Debug("MusicBrainz returned %d candidates for %q", len(candidates), query)
	return candidates, nil
}

func (mb *MusicBrainz) toCandidate(rec mbRecording) Candidate {
	c := Candidate{
		Title:      rec.Title,
		Provider:   mb.Name(),
		ProviderID: rec.ID,
		Score:      float64(rec.Score) / 100,
		Extra: map[string]interface{}{
			"musicbrainz_track_id": rec.ID,
		},
	}
	if len(rec.ArtistCredit) > 0 {
		c.Artist = rec.ArtistCredit[0].Name
	}
	if len(rec.Releases) > 0 {
		c.Album = rec.Releases[0].Title
		c.Extra["musicbrainz_release_id"] = rec.Releases[0].ID
	}
	if rec.Length > 0 {
		c.Extra["duration"] = float64(rec.Length) / 1000
	}
	if year := releaseYear(rec.FirstRelease); year > 0 {
		c.Year = &year
	}
	return c
}

// releaseYear parses the leading year of a "YYYY-MM-DD" (or bare
// "YYYY") release date.
func releaseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

// throttle enforces the one-request-per-second policy, honoring ctx
// cancellation while waiting.
func (mb *MusicBrainz) throttle(ctx context.Context) error {
	mb.mu.Lock()
	now := time.Now()
	next := mb.lastCall.Add(mbMinRequestGap)
	wait := next.Sub(now)
	if wait <= 0 {
		mb.lastCall = now
	} else {
		mb.lastCall = next
	}
	mb.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	select {
	case <-time.After(wait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
