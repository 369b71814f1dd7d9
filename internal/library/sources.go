package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnknownFile is returned when a path does not resolve to any
// registered source root.
var ErrUnknownFile = errors.New("file not under any library source")

// AddSource registers a root directory and returns its id. Adding an
// already-registered root is not an error.
func (idx *Index) AddSource(ctx context.Context, root string) (int64, error) {
	done := observeQuery("add_source")

	root = filepath.Clean(root)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := idx.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO sources(path) VALUES (?)", root,
	); err != nil {
		err = fmt.Errorf("failed to add source: %w", err)
		done(err)
		return 0, err
	}

	var id int64
	err := idx.db.QueryRowContext(ctx,
		"SELECT id FROM sources WHERE path = ?", root,
	).Scan(&id)
	if err != nil {
		err = fmt.Errorf("failed to look up source: %w", err)
		done(err)
		return 0, err
	}

	done(nil)
	return id, nil
}

// RemoveSource deletes a root and, via cascade, every file under it.
func (idx *Index) RemoveSource(ctx context.Context, root string) error {
	done := observeQuery("remove_source")

	idx.mu.Lock()
	defer idx.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := idx.db.ExecContext(ctx,
		"DELETE FROM sources WHERE path = ?", filepath.Clean(root),
	)
	done(err)
	return err
}

// ListSources returns all registered roots in insertion order.
func (idx *Index) ListSources(ctx context.Context) ([]Source, error) {
	done := observeQuery("list_sources")

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := idx.db.QueryContext(ctx, "SELECT id, path FROM sources ORDER BY id")
	if err != nil {
		done(err)
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var sources []Source
	for rows.Next() {
		var s Source
		if err := rows.Scan(&s.ID, &s.Path); err != nil {
			done(err)
			return nil, err
		}
		sources = append(sources, s)
	}
	if err := rows.Err(); err != nil {
		done(err)
		return nil, err
	}

	done(nil)
	return sources, nil
}

// resolveSource maps an absolute path to (source id, path relative to
// that source). Longest matching root wins so nested sources behave.
// Callers must not hold idx.mu.
func (idx *Index) resolveSource(ctx context.Context, absPath string) (int64, string, error) {
	sources, err := idx.ListSources(ctx)
	if err != nil {
		return 0, "", err
	}

	absPath = filepath.Clean(absPath)

	var (
		bestID  int64
		bestRel string
		bestLen = -1
	)
	for _, s := range sources {
		root := filepath.Clean(s.Path)
		rel, err := filepath.Rel(root, absPath)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if len(root) > bestLen {
			bestLen = len(root)
			bestID = s.ID
			bestRel = rel
		}
	}
	if bestLen < 0 {
		return 0, "", fmt.Errorf("%w: %s", ErrUnknownFile, absPath)
	}
	return bestID, bestRel, nil
}

// sourceRoot returns the root path for a source id.
func (idx *Index) sourceRoot(ctx context.Context, id int64) (string, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var root string
	err := idx.db.QueryRowContext(ctx, "SELECT path FROM sources WHERE id = ?", id).Scan(&root)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("unknown source id %d", id)
	}
	return root, err
}
