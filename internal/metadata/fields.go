package metadata

import "context"

// Fields is the universal metadata container for all media kinds.
// Every field is optional; a nil pointer (or nil slice) means the
// reader had nothing to say about it. Consumers go through the Or
// accessors instead of probing for presence themselves.
type Fields struct {
	Title      *string  `json:"title,omitempty"`
	Artist     *string  `json:"artist,omitempty"`
	Album      *string  `json:"album,omitempty"`
	Genre      *string  `json:"genre,omitempty"`
	Year       *int     `json:"year,omitempty"`
	Duration   *float64 `json:"duration,omitempty"` // seconds
	Rating     *int     `json:"rating,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Bitrate    *int     `json:"bitrate,omitempty"` // kbps
	Codec      *string  `json:"codec,omitempty"`
	Resolution *string  `json:"resolution,omitempty"` // e.g. "1920x1080"
}

// Provider supplies metadata for an absolute file path. Implementations
// must tolerate unknown paths and return zero Fields rather than fail:
// a missing metadata row is a normal condition, not an error.
type Provider interface {
	Lookup(ctx context.Context, absPath string) (Fields, error)
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(ctx context.Context, absPath string) (Fields, error)

// Lookup implements Provider.
func (f ProviderFunc) Lookup(ctx context.Context, absPath string) (Fields, error) {
	return f(ctx, absPath)
}

// TitleOr returns the title, or def when absent.
func (f Fields) TitleOr(def string) string {
	if f.Title != nil {
		return *f.Title
	}
	return def
}

// ArtistOr returns the artist, or def when absent.
func (f Fields) ArtistOr(def string) string {
	if f.Artist != nil {
		return *f.Artist
	}
	return def
}

// AlbumOr returns the album, or def when absent.
func (f Fields) AlbumOr(def string) string {
	if f.Album != nil {
		return *f.Album
	}
	return def
}

// GenreOr returns the genre, or def when absent.
func (f Fields) GenreOr(def string) string {
	if f.Genre != nil {
		return *f.Genre
	}
	return def
}

// YearOr returns the release year, or def when absent.
func (f Fields) YearOr(def int) int {
	if f.Year != nil {
		return *f.Year
	}
	return def
}

// DurationOr returns the duration in seconds, or def when absent.
func (f Fields) DurationOr(def float64) float64 {
	if f.Duration != nil {
		return *f.Duration
	}
	return def
}

// IsZero reports whether no field carries a value.
func (f Fields) IsZero() bool {
	return f.Title == nil && f.Artist == nil && f.Album == nil &&
		f.Genre == nil && f.Year == nil && f.Duration == nil &&
		f.Rating == nil && len(f.Tags) == 0 && f.Bitrate == nil &&
		f.Codec == nil && f.Resolution == nil
}

// String returns a pointer to s. Convenience for building Fields.
func String(s string) *string { return &s }

// Int returns a pointer to i. Convenience for building Fields.
func Int(i int) *int { return &i }

// Float returns a pointer to v. Convenience for building Fields.
func Float(v float64) *float64 { return &v }
