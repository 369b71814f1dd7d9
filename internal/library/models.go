package library

import "media-library/internal/mediatypes"

// MediaFile describes one indexed file. Path is always relative to the
// source root it was found under.
type MediaFile struct {
	Path   string          `json:"path"`
	Size   int64           `json:"size"`
	MTime  int64           `json:"mtime"` // epoch seconds
	Kind   mediatypes.Kind `json:"kind"`
	Rating *int            `json:"rating,omitempty"`
	Tags   []string        `json:"tags,omitempty"`
}

// Source is a registered library root directory.
type Source struct {
	ID   int64  `json:"id"`
	Path string `json:"path"`
}

// Entry pairs an indexed file with the source root it belongs to.
// This is the unit the smart playlist evaluator consumes.
type Entry struct {
	Media  MediaFile `json:"media"`
	Source string    `json:"source"`
}

// Stats summarizes the index contents.
type Stats struct {
	TotalFiles   int            `json:"totalFiles"`
	TotalSources int            `json:"totalSources"`
	ByKind       map[string]int `json:"byKind"`
}
