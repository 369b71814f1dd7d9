package mediatypes

import (
	"path/filepath"
	"strings"
)

// Kind classifies a library entry by its media family.
type Kind string

const (
	// KindAudio represents an audio file.
	KindAudio Kind = "audio"
	// KindVideo represents a video file.
	KindVideo Kind = "video"
	// KindImage represents an image file.
	KindImage Kind = "image"
	// KindDoc represents a readable document (ebooks, PDFs).
	KindDoc Kind = "doc"
	// KindOther represents an unknown or unsupported file type.
	KindOther Kind = "other"
)

// AudioExtensions maps file extensions to whether they are supported audio formats.
var AudioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".aac":  true,
	".m4a":  true,
	".ogg":  true,
	".opus": true,
	".wma":  true,
}

// VideoExtensions maps file extensions to whether they are supported video formats.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".mov":  true,
	".avi":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".wmv":  true,
}

// ImageExtensions maps file extensions to whether they are supported image formats.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

// DocExtensions maps file extensions to whether they are supported document formats.
var DocExtensions = map[string]bool{
	".pdf":  true,
	".epub": true,
	".mobi": true,
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	// Audio
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".aac":  "audio/aac",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
	".opus": "audio/opus",
	".wma":  "audio/x-ms-wma",

	// Video
	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".webm": "video/webm",
	".m4v":  "video/x-m4v",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".wmv":  "video/x-ms-wmv",

	// Images
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tiff": "image/tiff",
	".tif":  "image/tiff",

	// Documents
	".pdf":  "application/pdf",
	".epub": "application/epub+zip",
	".mobi": "application/x-mobipocket-ebook",
}

// KindForExt returns the Kind for a given file extension.
// The extension should be lowercase and include the leading dot (e.g., ".mp3").
// Returns KindOther if the extension is not recognized.
func KindForExt(ext string) Kind {
	if AudioExtensions[ext] {
		return KindAudio
	}
	if VideoExtensions[ext] {
		return KindVideo
	}
	if ImageExtensions[ext] {
		return KindImage
	}
	if DocExtensions[ext] {
		return KindDoc
	}
	return KindOther
}

// InferKind classifies a file path by its extension.
func InferKind(path string) Kind {
	return KindForExt(strings.ToLower(filepath.Ext(path)))
}

// GetMimeType returns the MIME type for a given file extension.
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}

// IsMediaFile returns true if the extension represents a supported media file.
func IsMediaFile(ext string) bool {
	return KindForExt(ext) != KindOther
}
