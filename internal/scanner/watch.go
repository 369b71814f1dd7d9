package scanner

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"media-library/internal/logging"
)

// Default polling interval for change detection.
const defaultPollInterval = 30 * time.Second

// Watcher rescans on a fixed interval and in between runs a cheap
// change poll: root mtime plus a top-level entry count per source.
// Full recursive walks only happen when something looks different or
// the rescan interval elapses.
type Watcher struct {
	scanner      *Scanner
	rescanEvery  time.Duration
	pollInterval time.Duration

	mu    sync.Mutex
	state map[string]rootState
}

type rootState struct {
	modTime       time.Time
	topLevelCount int
}

// NewWatcher creates a Watcher around an existing Scanner. A
// non-positive rescanEvery disables the periodic full rescan.
func NewWatcher(s *Scanner, rescanEvery time.Duration) *Watcher {
	return &Watcher{
		scanner:      s,
		rescanEvery:  rescanEvery,
		pollInterval: defaultPollInterval,
		state:        make(map[string]rootState),
	}
}

// SetPollInterval overrides the change-poll interval.
func (w *Watcher) SetPollInterval(interval time.Duration) {
	if interval > 0 {
		w.pollInterval = interval
	}
}

// Run blocks, polling for changes and periodically rescanning, until
// ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	logging.Info("Starting change detection polling (interval: %v)", w.pollInterval)

	poll := time.NewTicker(w.pollInterval)
	defer poll.Stop()

	var rescan <-chan time.Time
	if w.rescanEvery > 0 {
		t := time.NewTicker(w.rescanEvery)
		defer t.Stop()
		rescan = t.C
	}

	for {
		select {
		case <-poll.C:
			changed, err := w.detectChanges(ctx)
			if err != nil {
				logging.Error("Error detecting changes: %v", err)
				continue
			}
			if changed {
				logging.Info("Source changes detected, triggering rescan")
				w.rescanAll(ctx)
			}
		case <-rescan:
			logging.Debug("Periodic rescan triggered")
			w.rescanAll(ctx)
		case <-ctx.Done():
			logging.Info("Change detection polling stopped")
			return
		}
	}
}

func (w *Watcher) rescanAll(ctx context.Context) {
	if _, err := w.scanner.ScanAll(ctx); err != nil {
		logging.Error("Rescan failed: %v", err)
		return
	}
	if err := w.snapshot(ctx); err != nil {
		logging.Warn("Failed to refresh watch state: %v", err)
	}
}

// detectChanges checks each source root's mtime and top-level entry
// count without a recursive walk, so polling stays cheap on network
// filesystems.
func (w *Watcher) detectChanges(ctx context.Context) (bool, error) {
	sources, err := w.scanner.index.ListSources(ctx)
	if err != nil {
		return false, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, src := range sources {
		current, err := observeRoot(src.Path)
		if err != nil {
			logging.Warn("Failed to poll %s: %v", src.Path, err)
			continue
		}

		last, known := w.state[src.Path]
		if !known {
			logging.Debug("New source root detected: %s", src.Path)
			return true, nil
		}
		if current.modTime.After(last.modTime) {
			logging.Debug("Root %s modified: %v > %v", src.Path, current.modTime, last.modTime)
			return true, nil
		}
		if current.topLevelCount != last.topLevelCount {
			logging.Debug("Top-level count of %s changed: %d -> %d",
				src.Path, last.topLevelCount, current.topLevelCount)
			return true, nil
		}
	}
	return false, nil
}

// snapshot records the current state of every source root.
func (w *Watcher) snapshot(ctx context.Context) error {
	sources, err := w.scanner.index.ListSources(ctx)
	if err != nil {
		return err
	}

	state := make(map[string]rootState, len(sources))
	for _, src := range sources {
		current, err := observeRoot(src.Path)
		if err != nil {
			logging.Warn("Failed to snapshot %s: %v", src.Path, err)
			continue
		}
		state[src.Path] = current
	}

	w.mu.Lock()
	w.state = state
	w.mu.Unlock()
	return nil
}

func observeRoot(root string) (rootState, error) {
	info, err := os.Stat(root)
	if err != nil {
		return rootState{}, err
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return rootState{}, err
	}

	count := 0
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), ".") {
			count++
		}
	}

	return rootState{modTime: info.ModTime(), topLevelCount: count}, nil
}
