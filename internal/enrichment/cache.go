package enrichment

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"media-library/internal/logging"
)

// DefaultCacheTTL is how long a cached provider response stays valid.
const DefaultCacheTTL = 14 * 24 * time.Hour

// NormalizeQuery produces a stable cache key from free text: trimmed,
// lower-cased, internal whitespace collapsed to single spaces.
func NormalizeQuery(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// cacheEntry is one stored provider response.
type cacheEntry struct {
	Key        string      `json:"key"`
	Provider   string      `json:"provider"`
	CreatedAt  time.Time   `json:"created_at"`
	Candidates []Candidate `json:"candidates"`
}

type cacheFile struct {
	Entries []cacheEntry `json:"entries"`
}

// Cache stores provider search results on disk with TTL expiry, so
// repeated lookups for the same track do not hammer remote services.
// Keys are provider-scoped: two providers can cache the same query
// independently. Expired entries are purged lazily on read.
type Cache struct {
	path string
	ttl  time.Duration

	mu      sync.Mutex
	entries map[string]cacheEntry
	loaded  bool
}

// NewCache creates a cache backed by a JSON file at path. A
// non-positive ttl disables expiry.
func NewCache(path string, ttl time.Duration) *Cache {
	return &Cache{
		path:    path,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached candidates for a query and provider, or
// (nil, false) when absent or expired.
func (c *Cache) Get(query, provider string) ([]Candidate, bool) {
	key := cacheKey(NormalizeQuery(query), provider)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.expired(entry) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.Candidates, true
}

// Set stores candidates for a query and provider and persists the
// cache. Persistence failures are logged, not returned: a cache that
// cannot write still serves reads.
func (c *Cache) Set(query, provider string, candidates []Candidate) {
	norm := NormalizeQuery(query)
	key := cacheKey(norm, provider)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded()

	c.entries[key] = cacheEntry{
		Key:        norm,
		Provider:   provider,
		CreatedAt:  time.Now().UTC(),
		Candidates: candidates,
	}
	c.save()
}

// PurgeExpired removes every expired entry and reports how many were
// dropped.
func (c *Cache) PurgeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded()

	var stale []string
	for key, entry := range c.entries {
		if c.expired(entry) {
			stale = append(stale, key)
		}
	}
	for _, key := range stale {
		delete(c.entries, key)
	}
	if len(stale) > 0 {
		c.save()
	}
	return len(stale)
}

func cacheKey(normQuery, provider string) string {
	return provider + "::" + normQuery
}

func (c *Cache) expired(entry cacheEntry) bool {
	if c.ttl <= 0 {
		return false
	}
	return time.Since(entry.CreatedAt) > c.ttl
}

// ensureLoaded reads the cache file once. A corrupt file is treated as
// an empty cache rather than an error.
func (c *Cache) ensureLoaded() {
	if c.loaded {
		return
	}
	c.loaded = true

	data, err := os.ReadFile(c.path)
	if err != nil {
		return
	}

	var parsed cacheFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		logging.Warn("Ignoring corrupt enrichment cache %s: %v", c.path, err)
		return
	}
	for _, entry := range parsed.Entries {
		c.entries[cacheKey(entry.Key, entry.Provider)] = entry
	}
}

// save writes the cache atomically via a temp file rename.
func (c *Cache) save() {
	out := cacheFile{Entries: make([]cacheEntry, 0, len(c.entries))}
	for _, entry := range c.entries {
		out.Entries = append(out.Entries, entry)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		logging.Warn("Failed to encode enrichment cache: %v", err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		logging.Warn("Failed to create enrichment cache directory: %v", err)
		return
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		logging.Warn("Failed to write enrichment cache: %v", err)
		return
	}
	if err := os.Rename(tmp, c.path); err != nil {
		logging.Warn("Failed to replace enrichment cache: %v", err)
	}
}
