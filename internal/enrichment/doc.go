// Package enrichment looks up track metadata from online providers.
//
// A Provider turns a textual query into scored Candidates; MusicBrainz
// is the built-in implementation. The Manager runs every configured
// provider behind a disk-backed TTL cache, re-ranks candidates with
// local title and year similarity, and merges a chosen candidate into
// metadata.Fields without clobbering values the library already has.
package enrichment
