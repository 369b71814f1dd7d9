package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"media-library/internal/library"
	"media-library/internal/logging"
	"media-library/internal/mediatypes"
	"media-library/internal/metrics"
	"media-library/internal/workers"
)

const (
	// Number of files per database batch.
	defaultBatchSize = 500

	// Work channel buffer between the walker and the stat workers.
	defaultChannelBuffer = 1000
)

// Config controls the parallel scan.
type Config struct {
	// Workers is the number of stat workers (0 = auto based on CPU).
	Workers int
	// BatchSize is the number of files per database transaction.
	BatchSize int
	// ChannelBuffer is the size of the work channel.
	ChannelBuffer int
	// IncludeHidden also indexes files and directories starting
	// with ".". Hidden entries are skipped by default.
	IncludeHidden bool
}

// DefaultConfig returns scan settings sized for an I/O-bound walk.
func DefaultConfig() Config {
	return Config{
		Workers:       workers.ForIO(16),
		BatchSize:     defaultBatchSize,
		ChannelBuffer: defaultChannelBuffer,
	}
}

// Result summarizes one completed scan of a source root.
type Result struct {
	Files    int64         `json:"files"`
	Skipped  int64         `json:"skipped"`
	Removed  int64         `json:"removed"`
	Errors   int64         `json:"errors"`
	Duration time.Duration `json:"duration"`
}

// Scanner walks source roots and reconciles the library index with
// what is actually on disk.
type Scanner struct {
	index *library.Index
	cfg   Config

	mu       sync.Mutex
	scanning bool
	lastScan time.Time
}

// New creates a Scanner over the given index.
func New(index *library.Index, cfg Config) *Scanner {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.ChannelBuffer <= 0 {
		cfg.ChannelBuffer = defaultChannelBuffer
	}
	return &Scanner{index: index, cfg: cfg}
}

// Scanning reports whether a scan is currently in progress.
func (s *Scanner) Scanning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scanning
}

// LastScan returns the completion time of the most recent scan.
func (s *Scanner) LastScan() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastScan
}

// ScanAll scans every registered source root. Per-source failures are
// logged and counted; the remaining sources still run.
func (s *Scanner) ScanAll(ctx context.Context) (Result, error) {
	sources, err := s.index.ListSources(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list sources: %w", err)
	}

	var total Result
	start := time.Now()
	for _, src := range sources {
		res, err := s.ScanSource(ctx, src.Path)
		if err != nil {
			logging.Error("Scan of %s failed: %v", src.Path, err)
			total.Errors++
			continue
		}
		total.Files += res.Files
		total.Skipped += res.Skipped
		total.Removed += res.Removed
		total.Errors += res.Errors
	}
	total.Duration = time.Since(start)
	return total, nil
}

// ScanSource walks one root, upserts every media file found, and
// removes rows for files that no longer exist on disk. The root is
// registered as a source if it is not one already.
func (s *Scanner) ScanSource(ctx context.Context, root string) (Result, error) {
	if !s.tryStart() {
		logging.Info("Scan already in progress, skipping %s", root)
		return Result{}, nil
	}
	defer s.finish()

	metrics.ScanRunsTotal.Inc()
	metrics.ScanWorkers.Set(float64(s.cfg.Workers))
	start := time.Now()
	defer func() {
		metrics.ScanDuration.Observe(time.Since(start).Seconds())
	}()

	root, err := filepath.Abs(root)
	if err != nil {
		return Result{}, err
	}
	if _, err := os.Stat(root); err != nil {
		return Result{}, fmt.Errorf("failed to stat source root: %w", err)
	}

	sourceID, err := s.index.AddSource(ctx, root)
	if err != nil {
		return Result{}, fmt.Errorf("failed to register source: %w", err)
	}

	logging.Info("Scanning %s with %d workers", root, s.cfg.Workers)

	walk := s.walk(ctx, root)

	result := Result{
		Files:   walk.files,
		Skipped: walk.skipped,
		Errors:  walk.errors,
	}

	if walk.err != nil {
		metrics.ScanErrors.Inc()
		return result, walk.err
	}

	for i := 0; i < len(walk.found); i += s.cfg.BatchSize {
		end := i + s.cfg.BatchSize
		if end > len(walk.found) {
			end = len(walk.found)
		}
		if err := s.index.UpsertBatch(ctx, sourceID, walk.found[i:end]); err != nil {
			metrics.ScanErrors.Inc()
			return result, fmt.Errorf("failed to store batch: %w", err)
		}
	}
	metrics.ScanFilesProcessed.Add(float64(walk.files))

	removed, err := s.prune(ctx, sourceID, walk.found)
	if err != nil {
		logging.Error("Pruning missing files under %s failed: %v", root, err)
		metrics.ScanErrors.Inc()
		result.Errors++
	}
	result.Removed = removed

	result.Duration = time.Since(start)
	logging.Info("Scan of %s complete: %d files, %d skipped, %d removed in %v",
		root, result.Files, result.Skipped, result.Removed, result.Duration)
	return result, nil
}

// prune removes index rows whose files were not seen in this walk.
func (s *Scanner) prune(ctx context.Context, sourceID int64, found []library.MediaFile) (int64, error) {
	indexed, err := s.index.SourcePaths(ctx, sourceID)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]struct{}, len(found))
	for _, f := range found {
		seen[f.Path] = struct{}{}
	}

	var stale []string
	for _, p := range indexed {
		if _, ok := seen[p]; !ok {
			stale = append(stale, p)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	if err := s.index.RemoveRelPaths(ctx, sourceID, stale); err != nil {
		return 0, err
	}
	logging.Info("Removed %d missing files from index", len(stale))
	return int64(len(stale)), nil
}

func (s *Scanner) tryStart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scanning {
		return false
	}
	s.scanning = true
	return true
}

func (s *Scanner) finish() {
	s.mu.Lock()
	s.scanning = false
	s.lastScan = time.Now()
	s.mu.Unlock()
}

// statJob is one path handed from the walker to the stat workers.
type statJob struct {
	rel   string
	entry fs.DirEntry
}

// walkResult carries everything a walk produced.
type walkResult struct {
	found   []library.MediaFile
	files   int64
	skipped int64
	errors  int64
	err     error
}

// walk runs the walker goroutine and the stat worker pool, collecting
// every recognized media file under root.
func (s *Scanner) walk(ctx context.Context, root string) walkResult {
	jobs := make(chan statJob, s.cfg.ChannelBuffer)
	results := make(chan library.MediaFile, s.cfg.ChannelBuffer)

	var (
		skipped atomic.Int64
		errs    atomic.Int64
		wg      sync.WaitGroup
	)

	for i := 0; i < s.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				file, ok := s.examine(job)
				if !ok {
					skipped.Add(1)
					continue
				}
				select {
				case results <- file:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	var (
		found       []library.MediaFile
		collectorWg sync.WaitGroup
	)
	collectorWg.Add(1)
	go func() {
		defer collectorWg.Done()
		for file := range results {
			found = append(found, file)
		}
	}()

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return fs.SkipAll
		default:
		}

		if err != nil {
			logging.Warn("Error accessing %s: %v", path, err)
			errs.Add(1)
			return nil
		}

		if !s.cfg.IncludeHidden && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			errs.Add(1)
			return nil
		}

		select {
		case jobs <- statJob{rel: rel, entry: d}:
		case <-ctx.Done():
			return fs.SkipAll
		}
		return nil
	})

	close(jobs)
	wg.Wait()
	close(results)
	collectorWg.Wait()

	res := walkResult{
		found:   found,
		files:   int64(len(found)),
		skipped: skipped.Load(),
		errors:  errs.Load(),
	}
	if walkErr != nil && ctx.Err() == nil {
		res.err = fmt.Errorf("walk error: %w", walkErr)
	}
	if ctx.Err() != nil {
		res.err = ctx.Err()
	}
	return res
}

// examine stats one directory entry and classifies it. Unrecognized
// extensions are skipped rather than indexed as noise.
func (s *Scanner) examine(job statJob) (library.MediaFile, bool) {
	kind := mediatypes.InferKind(job.rel)
	if kind == mediatypes.KindOther {
		return library.MediaFile{}, false
	}

	info, err := job.entry.Info()
	if err != nil {
		logging.Warn("Error reading info for %s: %v", job.rel, err)
		return library.MediaFile{}, false
	}

	return library.MediaFile{
		Path:  job.rel,
		Size:  info.Size(),
		MTime: info.ModTime().Unix(),
		Kind:  kind,
	}, true
}
