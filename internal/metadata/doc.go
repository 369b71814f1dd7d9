// Package metadata defines the typed metadata contract between media
// readers, the enrichment pipeline, and the smart playlist engine.
//
// Fields replaces duck-typed attribute probing with explicit optional
// semantics: every field is a pointer (or slice) whose nil state means
// "unknown", and consumers read through Or-style accessors with an
// explicit default. Any metadata source (the library's track_metadata
// table, a file tag reader, a remote provider) implements Provider.
package metadata
