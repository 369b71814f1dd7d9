package enrichment

import (
	"context"
	"sort"
	"strings"
	"time"

	"media-library/internal/logging"
	"media-library/internal/metadata"
	"media-library/internal/metrics"
)

// Ranked pairs a candidate with its aggregated score.
type Ranked struct {
	Candidate Candidate `json:"candidate"`
	Score     float64   `json:"score"`
}

// Manager orchestrates provider searches, caching, and merging of
// chosen candidates into local metadata.
type Manager struct {
	cache     *Cache
	providers []Provider
}

// NewManager creates a Manager. With no providers every search returns
// empty results, which keeps the library usable offline.
func NewManager(cache *Cache, providers ...Provider) *Manager {
	return &Manager{cache: cache, providers: providers}
}

// Search queries every provider (cache first) and returns candidates
// ranked by aggregated score descending, ties broken by title. hint
// may carry the local track's current metadata; when present, title
// similarity and year proximity refine the ranking.
func (m *Manager) Search(ctx context.Context, query, mediaType string, hint *metadata.Fields) ([]Ranked, error) {
	var ranked []Ranked
	for _, provider := range m.providers {
		candidates, err := m.lookup(ctx, provider, query, mediaType)
		if err != nil {
			logging.Warn("Provider %s failed for %q: %v", provider.Name(), query, err)
			continue
		}
		for _, c := range candidates {
			ranked = append(ranked, Ranked{Candidate: c, Score: m.score(c, hint)})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return strings.ToLower(ranked[i].Candidate.Title) < strings.ToLower(ranked[j].Candidate.Title)
	})
	return ranked, nil
}

// lookup serves one provider's results from cache when possible.
func (m *Manager) lookup(ctx context.Context, provider Provider, query, mediaType string) ([]Candidate, error) {
	name := provider.Name()

	if m.cache != nil {
		if cached, ok := m.cache.Get(query, name); ok {
			metrics.EnrichmentLookupsTotal.WithLabelValues(name, "cache_hit").Inc()
			return cached, nil
		}
	}

	start := time.Now()
	candidates, err := provider.Search(ctx, query, mediaType)
	metrics.EnrichmentLookupDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.EnrichmentLookupsTotal.WithLabelValues(name, "error").Inc()
		return nil, err
	}
	metrics.EnrichmentLookupsTotal.WithLabelValues(name, "fetched").Inc()

	if m.cache != nil {
		m.cache.Set(query, name, candidates)
	}
	return candidates, nil
}

// score aggregates the candidate's provider confidence with local
// similarity signals. Without a hint the provider score stands alone.
func (m *Manager) score(c Candidate, hint *metadata.Fields) float64 {
	if hint == nil {
		return c.Score
	}
	titleScore := 0.0
	if hint.Title != nil {
		titleScore = SimpleRatio(*hint.Title, c.Title)
	}
	yearScore := YearProximity(hint.Year, c.Year)
	return AggregateScore(c.Score, titleScore, yearScore)
}

// Merge fills the empty fields of existing with values from the chosen
// candidate. Fields the user or a local reader already populated are
// never overwritten.
func Merge(existing metadata.Fields, chosen Ranked) metadata.Fields {
	c := chosen.Candidate

	if existing.Title == nil && c.Title != "" {
		existing.Title = metadata.String(c.Title)
	}
	if existing.Artist == nil && c.Artist != "" {
		existing.Artist = metadata.String(c.Artist)
	}
	if existing.Album == nil && c.Album != "" {
		existing.Album = metadata.String(c.Album)
	}
	if existing.Year == nil && c.Year != nil {
		existing.Year = metadata.Int(*c.Year)
	}
	if existing.Duration == nil {
		if d, ok := c.Extra["duration"].(float64); ok && d > 0 {
			existing.Duration = metadata.Float(d)
		}
	}
	return existing
}
