// Package handlers implements the HTTP API for the media library.
//
// Routes live under /api and cover the library listing, source
// management, scanning, file attributes and metadata, smart playlists,
// metadata enrichment, and cover art. Health probes sit at the root.
// Authentication is an optional bearer token whose bcrypt hash is
// written by the settoken command.
package handlers
