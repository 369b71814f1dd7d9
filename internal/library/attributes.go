package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"media-library/internal/logging"
)

// maxRating is the upper bound of the star scale.
const maxRating = 5

// SetRating stores a user rating for a file identified by absolute
// path. A nil rating clears the value. Ratings are clamped to 0..5.
func (idx *Index) SetRating(ctx context.Context, absPath string, rating *int) error {
	sourceID, rel, err := idx.resolveSource(ctx, absPath)
	if err != nil {
		return err
	}

	done := observeQuery("set_rating")

	var value interface{}
	if rating != nil {
		r := *rating
		if r < 0 {
			r = 0
		}
		if r > maxRating {
			r = maxRating
		}
		value = r
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := idx.db.ExecContext(ctx,
		"UPDATE files SET rating = ? WHERE source_id = ? AND path = ?",
		value, sourceID, rel,
	)
	if err != nil {
		done(err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = fmt.Errorf("%w: %s", ErrUnknownFile, absPath)
		done(err)
		return err
	}
	done(nil)
	return nil
}

// SetTags stores user tags for a file identified by absolute path.
// Tags are trimmed and empties dropped; an empty set clears the column.
func (idx *Index) SetTags(ctx context.Context, absPath string, tags []string) error {
	sourceID, rel, err := idx.resolveSource(ctx, absPath)
	if err != nil {
		return err
	}

	done := observeQuery("set_tags")

	var cleaned []string
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			cleaned = append(cleaned, tag)
		}
	}

	var value interface{}
	if len(cleaned) > 0 {
		payload, err := json.Marshal(cleaned)
		if err != nil {
			done(err)
			return fmt.Errorf("failed to encode tags: %w", err)
		}
		value = string(payload)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := idx.db.ExecContext(ctx,
		"UPDATE files SET tags = ? WHERE source_id = ? AND path = ?",
		value, sourceID, rel,
	)
	if err != nil {
		done(err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = fmt.Errorf("%w: %s", ErrUnknownFile, absPath)
		done(err)
		return err
	}
	done(nil)
	return nil
}

// Attributes returns the user-set rating and tags for an absolute path.
// Unknown paths yield (nil, nil) without error: the caller treats the
// file as simply unrated and untagged. This is the attribute loader
// handed to the smart playlist evaluator.
func (idx *Index) Attributes(ctx context.Context, absPath string) (*int, []string) {
	sourceID, rel, err := idx.resolveSource(ctx, absPath)
	if err != nil {
		return nil, nil
	}

	done := observeQuery("attributes")

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var (
		rating sql.NullInt64
		tags   sql.NullString
	)
	err = idx.db.QueryRowContext(ctx,
		"SELECT rating, tags FROM files WHERE source_id = ? AND path = ?",
		sourceID, rel,
	).Scan(&rating, &tags)
	if errors.Is(err, sql.ErrNoRows) {
		done(nil)
		return nil, nil
	}
	if err != nil {
		logging.Debug("attribute lookup failed for %s: %v", absPath, err)
		done(err)
		return nil, nil
	}
	done(nil)

	var r *int
	if rating.Valid {
		v := int(rating.Int64)
		r = &v
	}
	return r, decodeTags(tags)
}

// MoveFile transfers the index row, rating, and tags from oldPath to
// newPath. Used when the host application renames files on disk.
func (idx *Index) MoveFile(ctx context.Context, oldPath, newPath string) error {
	oldSource, oldRel, err := idx.resolveSource(ctx, oldPath)
	if err != nil {
		return err
	}
	newSource, newRel, err := idx.resolveSource(ctx, newPath)
	if err != nil {
		return err
	}

	done := observeQuery("move_file")

	idx.mu.Lock()
	defer idx.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = idx.db.ExecContext(ctx,
		"UPDATE files SET source_id = ?, path = ? WHERE source_id = ? AND path = ?",
		newSource, newRel, oldSource, oldRel,
	)
	done(err)
	return err
}
