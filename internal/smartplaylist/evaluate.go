package smartplaylist

import (
	"context"
	"path/filepath"
	"time"

	"media-library/internal/library"
	"media-library/internal/logging"
	"media-library/internal/metadata"
	"media-library/internal/metrics"
)

// AttributeLoader returns the user-set rating and tags for an absolute
// path. Unknown paths yield (nil, nil).
type AttributeLoader func(ctx context.Context, absPath string) (*int, []string)

// SortFunc applies a named sort strategy to filtered entries and
// returns the reordered slice. The sort-key vocabulary is owned by the
// caller (see the sorting package); the evaluator only triggers it.
type SortFunc func(sortKey string, entries []library.Entry) []library.Entry

// Evaluate filters entries through the playlist's rule tree, applies
// the optional sort strategy, and truncates to the playlist limit.
//
// Input entries are never mutated; the result is a filtered, possibly
// reordered and truncated view of the same values, preserving input
// order when no sort key is set. A rule that cannot be evaluated
// excludes at worst its own item and never aborts the evaluation.
func Evaluate(
	ctx context.Context,
	playlist SmartPlaylist,
	entries []library.Entry,
	meta metadata.Provider,
	attrs AttributeLoader,
	sortFn SortFunc,
) ([]library.Entry, error) {
	if err := playlist.Validate(); err != nil {
		return nil, err
	}

	metrics.PlaylistEvaluationsTotal.Inc()
	start := time.Now()
	defer func() {
		metrics.PlaylistEvaluationDuration.Observe(time.Since(start).Seconds())
	}()

	root := playlist.EnsureGroup()
	now := time.Now()

	collected := make([]library.Entry, 0, len(entries))
	for _, entry := range entries {
		absPath := filepath.Join(entry.Source, entry.Media.Path)

		var fields metadata.Fields
		if meta != nil {
			loaded, err := meta.Lookup(ctx, absPath)
			if err != nil {
				logging.Debug("metadata lookup failed for %s: %v", absPath, err)
			} else {
				fields = loaded
			}
		}

		var (
			rating *int
			tags   []string
		)
		if attrs != nil {
			rating, tags = attrs(ctx, absPath)
		}
		if rating == nil {
			rating = entry.Media.Rating
		}
		if len(tags) == 0 {
			tags = entry.Media.Tags
		}

		itemCtx := BuildContext(entry.Media, entry.Source, fields, rating, tags, now)
		if root.Matches(itemCtx, now) {
			collected = append(collected, entry)
		}
	}

	if playlist.Sort != "" && sortFn != nil {
		collected = sortFn(playlist.Sort, collected)
	}

	if limit := playlist.EffectiveLimit(); limit >= 0 && len(collected) > limit {
		collected = collected[:limit]
	}

	return collected, nil
}
