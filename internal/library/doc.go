/*
Package library implements the SQLite-backed media library index.

The index stores registered source roots, the files found beneath them,
and the user-set attributes (rating, tags) that take precedence over
file-embedded metadata during smart playlist evaluation.

# Schema

Two core tables:

	sources(id, path)
	files(id, source_id, path, size, mtime, kind, rating, tags)

files.path is relative to the owning source root, so libraries survive
being mounted at a different location. A third table, track_metadata,
holds per-file metadata written by readers and the enrichment pipeline
(see the metadata package).

# Concurrency

All exported methods are safe for concurrent use. Writes serialize on
an internal mutex; reads share an RLock. Every operation runs under a
context timeout and records Prometheus query metrics.
*/
package library
