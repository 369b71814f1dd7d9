package smartplaylist

import (
	"path/filepath"
	"strings"
	"time"

	"media-library/internal/library"
	"media-library/internal/metadata"
)

// BuildContext flattens one (media, source root) pair plus its loaded
// metadata and user attributes into the field-value map rules evaluate
// against.
//
// Precedence: the attribute loader's rating and tags (user overrides
// from the index) win over metadata-derived values. Tags are stored as
// a concrete slice under both "tag" and "tags".
//
// Derived fields: "mtime_days"/"age_days" are whole days since
// modification, "filesize_mb" is size/2^20, "text" is the lower-cased
// concatenation of title, album, and artist for free-text rules.
func BuildContext(media library.MediaFile, sourceRoot string, meta metadata.Fields, rating *int, tags []string, now time.Time) Context {
	absPath := filepath.Join(sourceRoot, media.Path)

	if rating == nil {
		rating = meta.Rating
	}
	if len(tags) == 0 {
		tags = meta.Tags
	}
	if tags == nil {
		tags = []string{}
	}

	ctx := Context{
		"path":  absPath,
		"kind":  string(media.Kind),
		"mtime": media.MTime,
		"size":  media.Size,
		// Historical aliases kept for saved playlists that predate the
		// plain "size"/"duration" names.
		"size_gt":     media.Size,
		"filesize_mb": float64(media.Size) / (1024 * 1024),
		"tag":         tags,
		"tags":        tags,
		"text": strings.ToLower(strings.TrimSpace(strings.Join([]string{
			meta.TitleOr(""), meta.AlbumOr(""), meta.ArtistOr(""),
		}, " "))),
	}

	ageDays := daysSince(media.MTime, now)
	ctx["mtime_days"] = ageDays
	ctx["age_days"] = ageDays

	if rating != nil {
		ctx["rating"] = *rating
	}
	if meta.Title != nil {
		ctx["title"] = *meta.Title
	}
	if meta.Artist != nil {
		ctx["artist"] = *meta.Artist
	}
	if meta.Album != nil {
		ctx["album"] = *meta.Album
	}
	if meta.Genre != nil {
		ctx["genre"] = *meta.Genre
	}
	if meta.Year != nil {
		ctx["year"] = *meta.Year
	}
	if meta.Duration != nil {
		ctx["duration"] = *meta.Duration
		ctx["duration_gt"] = *meta.Duration
	}

	return ctx
}

// daysSince returns whole days between an epoch timestamp and now,
// clamped at zero for timestamps in the future.
func daysSince(epoch int64, now time.Time) int {
	delta := now.Unix() - epoch
	if delta < 0 {
		return 0
	}
	return int(delta / secondsPerDay)
}
