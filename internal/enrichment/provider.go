package enrichment

import "context"

// Candidate is one potential metadata match returned by a provider.
// Score is the provider's intrinsic confidence in [0, 1]; the manager
// mixes it with local similarity scores before ranking.
type Candidate struct {
	Title      string                 `json:"title"`
	Artist     string                 `json:"artist,omitempty"`
	Album      string                 `json:"album,omitempty"`
	Year       *int                   `json:"year,omitempty"`
	Provider   string                 `json:"provider"`
	ProviderID string                 `json:"provider_id"`
	Score      float64                `json:"score"`
	Extra      map[string]interface{} `json:"extra,omitempty"`
}

// Provider is a remote metadata source.
type Provider interface {
	// Name identifies the provider in cache keys and metrics labels.
	Name() string
	// Search returns candidate matches for a textual query.
	// mediaType narrows the lookup (e.g. "audio", "video").
	Search(ctx context.Context, query, mediaType string) ([]Candidate, error)
}
