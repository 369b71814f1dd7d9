package library

import (
	"context"
	"path/filepath"
	"testing"

	"media-library/internal/mediatypes"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()

	idx, err := Open(context.Background(), filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := idx.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return idx
}

func TestAddSourceIdempotent(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	id1, err := idx.AddSource(ctx, "/music")
	if err != nil {
		t.Fatalf("AddSource: %v", err)
	}
	id2, err := idx.AddSource(ctx, "/music")
	if err != nil {
		t.Fatalf("AddSource second: %v", err)
	}
	if id1 != id2 {
		t.Errorf("AddSource returned different ids for same root: %d != %d", id1, id2)
	}

	sources, err := idx.ListSources(ctx)
	if err != nil {
		t.Fatalf("ListSources: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("got %d sources, want 1", len(sources))
	}
}

func TestUpsertAndEntries(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	sourceID, err := idx.AddSource(ctx, "/music")
	if err != nil {
		t.Fatalf("AddSource: %v", err)
	}

	files := []MediaFile{
		{Path: "a.mp3", Size: 100, MTime: 1000, Kind: mediatypes.KindAudio},
		{Path: "b.mp3", Size: 200, MTime: 2000, Kind: mediatypes.KindAudio},
		{Path: "c.mp4", Size: 300, MTime: 3000, Kind: mediatypes.KindVideo},
	}
	if err := idx.UpsertBatch(ctx, sourceID, files); err != nil {
		t.Fatalf("UpsertBatch: %v", err)
	}

	entries, err := idx.Entries(ctx, 0)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	// Newest insertion first.
	if entries[0].Media.Path != "c.mp4" {
		t.Errorf("first entry = %s, want c.mp4", entries[0].Media.Path)
	}
	if entries[0].Source != "/music" {
		t.Errorf("source = %s, want /music", entries[0].Source)
	}

	// Upserting an existing path updates in place, no duplicate row.
	if err := idx.UpsertFile(ctx, sourceID, MediaFile{
		Path: "a.mp3", Size: 150, MTime: 1500, Kind: mediatypes.KindAudio,
	}); err != nil {
		t.Fatalf("UpsertFile: %v", err)
	}
	entries, err = idx.Entries(ctx, 0)
	if err != nil {
		t.Fatalf("Entries after upsert: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries after upsert, want 3", len(entries))
	}
	for _, e := range entries {
		if e.Media.Path == "a.mp3" && e.Media.Size != 150 {
			t.Errorf("a.mp3 size = %d, want 150", e.Media.Size)
		}
	}
}

func TestEntriesLimit(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	sourceID, _ := idx.AddSource(ctx, "/music")
	for i, name := range []string{"a.mp3", "b.mp3", "c.mp3"} {
		if err := idx.UpsertFile(ctx, sourceID, MediaFile{
			Path: name, MTime: int64(i), Kind: mediatypes.KindAudio,
		}); err != nil {
			t.Fatalf("UpsertFile: %v", err)
		}
	}

	entries, err := idx.Entries(ctx, 2)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}
}

func TestRatingClampAndAttributes(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	sourceID, _ := idx.AddSource(ctx, "/music")
	if err := idx.UpsertFile(ctx, sourceID, MediaFile{
		Path: "a.mp3", Kind: mediatypes.KindAudio, MTime: 1,
	}); err != nil {
		t.Fatalf("UpsertFile: %v", err)
	}

	nine := 9
	if err := idx.SetRating(ctx, "/music/a.mp3", &nine); err != nil {
		t.Fatalf("SetRating: %v", err)
	}
	rating, tags := idx.Attributes(ctx, "/music/a.mp3")
	if rating == nil || *rating != 5 {
		t.Errorf("rating = %v, want clamped 5", rating)
	}
	if tags != nil {
		t.Errorf("tags = %v, want nil", tags)
	}

	if err := idx.SetTags(ctx, "/music/a.mp3", []string{" live ", "", "favorite"}); err != nil {
		t.Fatalf("SetTags: %v", err)
	}
	_, tags = idx.Attributes(ctx, "/music/a.mp3")
	if len(tags) != 2 || tags[0] != "live" || tags[1] != "favorite" {
		t.Errorf("tags = %v, want [live favorite]", tags)
	}

	// Clearing.
	if err := idx.SetRating(ctx, "/music/a.mp3", nil); err != nil {
		t.Fatalf("SetRating clear: %v", err)
	}
	rating, _ = idx.Attributes(ctx, "/music/a.mp3")
	if rating != nil {
		t.Errorf("rating = %v after clear, want nil", rating)
	}
}

func TestAttributesUnknownPath(t *testing.T) {
	idx := openTestIndex(t)

	rating, tags := idx.Attributes(context.Background(), "/nowhere/x.mp3")
	if rating != nil || tags != nil {
		t.Errorf("Attributes(unknown) = (%v, %v), want (nil, nil)", rating, tags)
	}
}

func TestSetRatingUnknownFile(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	if _, err := idx.AddSource(ctx, "/music"); err != nil {
		t.Fatalf("AddSource: %v", err)
	}

	three := 3
	if err := idx.SetRating(ctx, "/music/missing.mp3", &three); err == nil {
		t.Error("SetRating on unindexed file succeeded, want error")
	}
}

func TestRemoveSourceCascades(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	sourceID, _ := idx.AddSource(ctx, "/music")
	if err := idx.UpsertFile(ctx, sourceID, MediaFile{
		Path: "a.mp3", Kind: mediatypes.KindAudio, MTime: 1,
	}); err != nil {
		t.Fatalf("UpsertFile: %v", err)
	}

	if err := idx.RemoveSource(ctx, "/music"); err != nil {
		t.Fatalf("RemoveSource: %v", err)
	}

	entries, err := idx.Entries(ctx, 0)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries after source removal, want 0", len(entries))
	}
}

func TestMoveFileKeepsAttributes(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	sourceID, _ := idx.AddSource(ctx, "/music")
	if err := idx.UpsertFile(ctx, sourceID, MediaFile{
		Path: "old.mp3", Kind: mediatypes.KindAudio, MTime: 1,
	}); err != nil {
		t.Fatalf("UpsertFile: %v", err)
	}
	four := 4
	if err := idx.SetRating(ctx, "/music/old.mp3", &four); err != nil {
		t.Fatalf("SetRating: %v", err)
	}

	if err := idx.MoveFile(ctx, "/music/old.mp3", "/music/new.mp3"); err != nil {
		t.Fatalf("MoveFile: %v", err)
	}

	rating, _ := idx.Attributes(ctx, "/music/new.mp3")
	if rating == nil || *rating != 4 {
		t.Errorf("rating after move = %v, want 4", rating)
	}
	rating, _ = idx.Attributes(ctx, "/music/old.mp3")
	if rating != nil {
		t.Errorf("old path still has rating %v", *rating)
	}
}

func TestStats(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	sourceID, _ := idx.AddSource(ctx, "/music")
	files := []MediaFile{
		{Path: "a.mp3", Kind: mediatypes.KindAudio, MTime: 1},
		{Path: "b.mp3", Kind: mediatypes.KindAudio, MTime: 2},
		{Path: "c.mp4", Kind: mediatypes.KindVideo, MTime: 3},
	}
	if err := idx.UpsertBatch(ctx, sourceID, files); err != nil {
		t.Fatalf("UpsertBatch: %v", err)
	}

	stats, err := idx.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalFiles != 3 || stats.TotalSources != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.ByKind["audio"] != 2 || stats.ByKind["video"] != 1 {
		t.Errorf("byKind = %v", stats.ByKind)
	}
}
