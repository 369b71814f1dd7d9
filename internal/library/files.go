package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"media-library/internal/mediatypes"
	"media-library/internal/metrics"
)

// UpsertFile inserts or refreshes one file row under a source. Rating
// and tags are preserved on update; only the stat-derived columns move.
func (idx *Index) UpsertFile(ctx context.Context, sourceID int64, file MediaFile) error {
	done := observeQuery("upsert_file")

	idx.mu.Lock()
	defer idx.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := idx.db.ExecContext(ctx, `
		INSERT INTO files(source_id, path, size, mtime, kind)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(source_id, path) DO UPDATE SET
			size = excluded.size,
			mtime = excluded.mtime,
			kind = excluded.kind
	`, sourceID, file.Path, file.Size, file.MTime, string(file.Kind))
	done(err)
	return err
}

// UpsertBatch inserts or refreshes many files in one transaction.
// The scanner uses this to avoid per-file commit overhead.
func (idx *Index) UpsertBatch(ctx context.Context, sourceID int64, files []MediaFile) error {
	if len(files) == 0 {
		return nil
	}

	done := observeQuery("upsert_batch")

	idx.mu.Lock()
	defer idx.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		done(err)
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO files(source_id, path, size, mtime, kind)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(source_id, path) DO UPDATE SET
			size = excluded.size,
			mtime = excluded.mtime,
			kind = excluded.kind
	`)
	if err != nil {
		done(err)
		return err
	}
	defer stmt.Close() //nolint:errcheck

	for _, f := range files {
		if _, err := stmt.ExecContext(ctx, sourceID, f.Path, f.Size, f.MTime, string(f.Kind)); err != nil {
			err = fmt.Errorf("failed to upsert %s: %w", f.Path, err)
			done(err)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		done(err)
		return err
	}
	done(nil)
	return nil
}

// RemoveFile removes one file by absolute path.
func (idx *Index) RemoveFile(ctx context.Context, absPath string) error {
	sourceID, rel, err := idx.resolveSource(ctx, absPath)
	if err != nil {
		return err
	}

	done := observeQuery("remove_file")

	idx.mu.Lock()
	defer idx.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = idx.db.ExecContext(ctx,
		"DELETE FROM files WHERE source_id = ? AND path = ?", sourceID, rel,
	)
	done(err)
	return err
}

// Entries returns every indexed file paired with its source root,
// newest first. A limit <= 0 means no limit.
func (idx *Index) Entries(ctx context.Context, limit int) ([]Entry, error) {
	done := observeQuery("entries")

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		SELECT f.path, f.size, f.mtime, f.kind, f.rating, f.tags, s.path
		FROM files AS f
		JOIN sources AS s ON s.id = f.source_id
		ORDER BY f.id DESC
	`
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = idx.db.QueryContext(ctx, query+" LIMIT ?", limit)
	} else {
		rows, err = idx.db.QueryContext(ctx, query)
	}
	if err != nil {
		done(err)
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var entries []Entry
	for rows.Next() {
		var (
			e      Entry
			kind   string
			rating sql.NullInt64
			tags   sql.NullString
		)
		if err := rows.Scan(&e.Media.Path, &e.Media.Size, &e.Media.MTime, &kind, &rating, &tags, &e.Source); err != nil {
			done(err)
			return nil, err
		}
		e.Media.Kind = mediatypes.Kind(kind)
		if rating.Valid {
			r := int(rating.Int64)
			e.Media.Rating = &r
		}
		e.Media.Tags = decodeTags(tags)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		done(err)
		return nil, err
	}

	done(nil)
	return entries, nil
}

// SourcePaths returns the source-relative paths of every file indexed
// under one source. The scanner diffs this against the walked set to
// find files that disappeared from disk.
func (idx *Index) SourcePaths(ctx context.Context, sourceID int64) ([]string, error) {
	done := observeQuery("source_paths")

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := idx.db.QueryContext(ctx,
		"SELECT path FROM files WHERE source_id = ?", sourceID,
	)
	if err != nil {
		done(err)
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			done(err)
			return nil, err
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		done(err)
		return nil, err
	}

	done(nil)
	return paths, nil
}

// RemoveRelPaths deletes file rows under one source by their relative
// paths, in a single transaction.
func (idx *Index) RemoveRelPaths(ctx context.Context, sourceID int64, rels []string) error {
	if len(rels) == 0 {
		return nil
	}

	done := observeQuery("remove_rel_paths")

	idx.mu.Lock()
	defer idx.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		done(err)
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		"DELETE FROM files WHERE source_id = ? AND path = ?",
	)
	if err != nil {
		done(err)
		return err
	}
	defer stmt.Close() //nolint:errcheck

	for _, rel := range rels {
		if _, err := stmt.ExecContext(ctx, sourceID, rel); err != nil {
			done(err)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		done(err)
		return err
	}
	done(nil)
	return nil
}

// Stats returns index totals and refreshes the per-kind gauge.
func (idx *Index) Stats(ctx context.Context) (Stats, error) {
	done := observeQuery("stats")

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	stats := Stats{ByKind: make(map[string]int)}

	rows, err := idx.db.QueryContext(ctx, "SELECT kind, COUNT(*) FROM files GROUP BY kind")
	if err != nil {
		done(err)
		return stats, err
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var (
			kind  string
			count int
		)
		if err := rows.Scan(&kind, &count); err != nil {
			done(err)
			return stats, err
		}
		stats.ByKind[kind] = count
		stats.TotalFiles += count
		metrics.LibraryFiles.WithLabelValues(kind).Set(float64(count))
	}
	if err := rows.Err(); err != nil {
		done(err)
		return stats, err
	}

	if err := idx.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sources").Scan(&stats.TotalSources); err != nil {
		done(err)
		return stats, err
	}

	done(nil)
	return stats, nil
}

// decodeTags parses the stored tags column. The canonical encoding is a
// JSON array; comma-separated values from hand-edited rows still load.
func decodeTags(ns sql.NullString) []string {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	var parsed []string
	if err := json.Unmarshal([]byte(ns.String), &parsed); err == nil {
		out := parsed[:0]
		for _, tag := range parsed {
			if strings.TrimSpace(tag) != "" {
				out = append(out, tag)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}
	var out []string
	for _, tag := range strings.Split(ns.String, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
