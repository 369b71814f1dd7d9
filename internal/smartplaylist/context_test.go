package smartplaylist

import (
	"testing"
	"time"

	"media-library/internal/library"
	"media-library/internal/mediatypes"
	"media-library/internal/metadata"
)

func TestBuildContextCoreFields(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	media := library.MediaFile{
		Path:  "albums/meddle/echoes.flac",
		Size:  64 << 20,
		MTime: now.Unix() - 3*secondsPerDay,
		Kind:  mediatypes.KindAudio,
	}
	fields := metadata.Fields{
		Title:    metadata.String("Echoes"),
		Artist:   metadata.String("Pink Floyd"),
		Album:    metadata.String("Meddle"),
		Duration: metadata.Float(1402),
	}
	rating := 5

	ctx := BuildContext(media, "/music", fields, &rating, []string{"live"}, now)

	if got := ctx["path"]; got != "/music/albums/meddle/echoes.flac" {
		t.Errorf("path = %v", got)
	}
	if got := ctx["kind"]; got != "audio" {
		t.Errorf("kind = %v", got)
	}
	if got := ctx["rating"]; got != 5 {
		t.Errorf("rating = %v", got)
	}
	if got := ctx["mtime_days"]; got != 3 {
		t.Errorf("mtime_days = %v", got)
	}
	if got := ctx["age_days"]; got != 3 {
		t.Errorf("age_days = %v", got)
	}
	if got := ctx["filesize_mb"]; got != float64(64) {
		t.Errorf("filesize_mb = %v", got)
	}
	if got := ctx["text"]; got != "echoes meddle pink floyd" {
		t.Errorf("text = %q", got)
	}
	if got := ctx["duration"]; got != float64(1402) {
		t.Errorf("duration = %v", got)
	}
}

func TestBuildContextUserAttributesWin(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	media := library.MediaFile{Path: "a.mp3", Kind: mediatypes.KindAudio, MTime: now.Unix()}
	fields := metadata.Fields{
		Rating: metadata.Int(2),
		Tags:   []string{"from-metadata"},
	}
	rating := 4

	ctx := BuildContext(media, "/music", fields, &rating, []string{"from-user"}, now)

	if got := ctx["rating"]; got != 4 {
		t.Errorf("rating = %v, want user override 4", got)
	}
	tags, _ := ctx["tags"].([]string)
	if len(tags) != 1 || tags[0] != "from-user" {
		t.Errorf("tags = %v, want user override", tags)
	}
}

func TestBuildContextFallbacks(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	media := library.MediaFile{Path: "a.mp3", Kind: mediatypes.KindAudio, MTime: now.Unix()}
	fields := metadata.Fields{
		Rating: metadata.Int(3),
		Tags:   []string{"from-metadata"},
	}

	ctx := BuildContext(media, "/music", fields, nil, nil, now)

	if got := ctx["rating"]; got != 3 {
		t.Errorf("rating = %v, want metadata fallback 3", got)
	}
	tags, _ := ctx["tags"].([]string)
	if len(tags) != 1 || tags[0] != "from-metadata" {
		t.Errorf("tags = %v, want metadata fallback", tags)
	}
}

func TestBuildContextAbsentOptionals(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	media := library.MediaFile{Path: "clip.mp4", Kind: mediatypes.KindVideo, MTime: now.Unix()}

	ctx := BuildContext(media, "/video", metadata.Fields{}, nil, nil, now)

	for _, key := range []string{"rating", "title", "artist", "album", "genre", "year", "duration"} {
		if _, present := ctx[key]; present {
			t.Errorf("key %q present without a value to back it", key)
		}
	}
	if tags, ok := ctx["tags"].([]string); !ok || tags == nil {
		t.Error("tags should be a concrete empty slice, never nil")
	}
	if ctx["text"] != "" {
		t.Errorf("text = %q, want empty", ctx["text"])
	}
}

func TestBuildContextFutureMTimeClampsAge(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	media := library.MediaFile{Path: "a.mp3", Kind: mediatypes.KindAudio, MTime: now.Unix() + 3600}

	ctx := BuildContext(media, "/music", metadata.Fields{}, nil, nil, now)
	if got := ctx["age_days"]; got != 0 {
		t.Errorf("age_days = %v, want 0 for future mtime", got)
	}
}
