// Package scanner walks source roots and keeps the library index in
// sync with the filesystem.
//
// A scan is a parallel directory walk: one goroutine enumerates
// entries while a pool of stat workers classifies them by extension
// and reads their sizes and modification times. Recognized files are
// upserted in batches; rows whose files vanished from disk are pruned
// after the walk.
//
// Watcher adds cheap change detection between full rescans by polling
// each root's modification time and top-level entry count, which keeps
// steady-state cost low on network filesystems.
package scanner
