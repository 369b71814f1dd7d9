package library

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"media-library/internal/logging"
	"media-library/internal/metrics"
)

// Default timeout for index queries.
const defaultTimeout = 5 * time.Second

// Index is the SQLite-backed media library index. It stores source
// roots, the files found beneath them, and the user-set attributes
// (rating, tags) that override file-embedded metadata.
type Index struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// Open opens (or creates) the library index at dbPath. The parent
// directory must already exist and be writable.
func Open(ctx context.Context, dbPath string) (*Index, error) {
	logging.Info("Library index path: %s", dbPath)

	// busy_timeout prevents "database is locked" errors when the scanner
	// and the API touch the index concurrently.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=ON", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open library index: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close index after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to library index: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	idx := &Index{db: db, dbPath: dbPath}

	if err := idx.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close index after schema failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize index schema: %w", err)
	}

	logging.Info("Library index ready at %s", dbPath)
	return idx, nil
}

func (idx *Index) initialize(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS sources (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_id INTEGER NOT NULL,
		path TEXT NOT NULL,
		size INTEGER NOT NULL DEFAULT 0,
		mtime INTEGER NOT NULL,
		kind TEXT NOT NULL,
		rating INTEGER,
		tags TEXT,
		UNIQUE(source_id, path),
		FOREIGN KEY(source_id) REFERENCES sources(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_files_kind ON files(kind);
	CREATE INDEX IF NOT EXISTS idx_files_mtime ON files(mtime);
	CREATE INDEX IF NOT EXISTS idx_files_rating ON files(rating);

	-- Per-file metadata supplied by readers and the enrichment pipeline.
	CREATE TABLE IF NOT EXISTS track_metadata (
		file_id INTEGER PRIMARY KEY,
		title TEXT,
		artist TEXT,
		album TEXT,
		genre TEXT,
		year INTEGER,
		duration REAL,
		rating INTEGER,
		tags TEXT,
		bitrate INTEGER,
		codec TEXT,
		resolution TEXT,
		FOREIGN KEY(file_id) REFERENCES files(id) ON DELETE CASCADE
	);
	`

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := idx.db.ExecContext(ctx, schema); err != nil {
		return err
	}
	return nil
}

// Close closes the underlying database handle.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.db.Close()
}

// observeQuery records query count and duration metrics for one index
// operation. Call the returned function with the operation's error.
func observeQuery(operation string) func(error) {
	start := time.Now()
	return func(err error) {
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
		metrics.DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
