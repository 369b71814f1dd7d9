package sorting

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"media-library/internal/library"
	"media-library/internal/metadata"
)

// Recognized sort keys.
const (
	KeyRecent       = "recent"
	KeyName         = "name"
	KeyTitle        = "title"
	KeyKind         = "kind"
	KeyRatingDesc   = "rating_desc"
	KeyRatingAsc    = "rating_asc"
	KeyDurationDesc = "duration_desc"
	KeyDurationAsc  = "duration_asc"
)

// Sorter applies named sort strategies to library entries. Title and
// duration sorts consult the metadata provider; everything else works
// off the index row alone.
type Sorter struct {
	meta metadata.Provider
}

// New creates a Sorter. meta may be nil, in which case title sorts
// fall back to file names and duration sorts treat every entry as
// zero-length.
func New(meta metadata.Provider) *Sorter {
	return &Sorter{meta: meta}
}

// Apply sorts entries by the given key and returns the same slice.
// Unknown keys leave the order untouched, as does KeyRecent when the
// input is already newest-first from the index. All sorts are stable
// so equal elements keep their input order.
func (s *Sorter) Apply(ctx context.Context, key string, entries []library.Entry) []library.Entry {
	switch key {
	case KeyRecent:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Media.MTime > entries[j].Media.MTime
		})
	case KeyName:
		sort.SliceStable(entries, func(i, j int) bool {
			return strings.ToLower(filepath.Base(entries[i].Media.Path)) <
				strings.ToLower(filepath.Base(entries[j].Media.Path))
		})
	case KeyTitle:
		titles := s.titles(ctx, entries)
		sort.SliceStable(entries, func(i, j int) bool {
			return titles[entryKey(entries[i])] < titles[entryKey(entries[j])]
		})
	case KeyKind:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Media.Kind < entries[j].Media.Kind
		})
	case KeyRatingDesc:
		sort.SliceStable(entries, func(i, j int) bool {
			return ratingOf(entries[i]) > ratingOf(entries[j])
		})
	case KeyRatingAsc:
		sort.SliceStable(entries, func(i, j int) bool {
			return ratingOf(entries[i]) < ratingOf(entries[j])
		})
	case KeyDurationDesc:
		durations := s.durations(ctx, entries)
		sort.SliceStable(entries, func(i, j int) bool {
			return durations[entryKey(entries[i])] > durations[entryKey(entries[j])]
		})
	case KeyDurationAsc:
		durations := s.durations(ctx, entries)
		sort.SliceStable(entries, func(i, j int) bool {
			return durations[entryKey(entries[i])] < durations[entryKey(entries[j])]
		})
	}
	return entries
}

// Func binds a context and returns a closure matching the evaluator's
// SortFunc seam.
func (s *Sorter) Func(ctx context.Context) func(key string, entries []library.Entry) []library.Entry {
	return func(key string, entries []library.Entry) []library.Entry {
		return s.Apply(ctx, key, entries)
	}
}

func entryKey(e library.Entry) string {
	return filepath.Join(e.Source, e.Media.Path)
}

func ratingOf(e library.Entry) int {
	if e.Media.Rating == nil {
		return 0
	}
	return *e.Media.Rating
}

// titles resolves a display title per entry up front so the comparator
// never does I/O.
func (s *Sorter) titles(ctx context.Context, entries []library.Entry) map[string]string {
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		key := entryKey(e)
		title := strings.ToLower(filepath.Base(e.Media.Path))
		if s.meta != nil {
			if fields, err := s.meta.Lookup(ctx, key); err == nil && fields.Title != nil {
				title = strings.ToLower(*fields.Title)
			}
		}
		out[key] = title
	}
	return out
}

func (s *Sorter) durations(ctx context.Context, entries []library.Entry) map[string]float64 {
	out := make(map[string]float64, len(entries))
	for _, e := range entries {
		key := entryKey(e)
		var d float64
		if s.meta != nil {
			if fields, err := s.meta.Lookup(ctx, key); err == nil {
				d = fields.DurationOr(0)
			}
		}
		out[key] = d
	}
	return out
}
