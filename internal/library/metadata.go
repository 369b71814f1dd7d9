package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"media-library/internal/metadata"
)

// SetTrackMetadata stores (replaces) the metadata row for an absolute
// path. Used by tag readers and by the enrichment pipeline when the
// user accepts a candidate.
func (idx *Index) SetTrackMetadata(ctx context.Context, absPath string, fields metadata.Fields) error {
	fileID, err := idx.fileID(ctx, absPath)
	if err != nil {
		return err
	}

	done := observeQuery("set_track_metadata")

	var tags interface{}
	if len(fields.Tags) > 0 {
		payload, err := json.Marshal(fields.Tags)
		if err != nil {
			done(err)
			return fmt.Errorf("failed to encode metadata tags: %w", err)
		}
		tags = string(payload)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = idx.db.ExecContext(ctx, `
		INSERT INTO track_metadata(file_id, title, artist, album, genre, year, duration, rating, tags, bitrate, codec, resolution)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_id) DO UPDATE SET
			title = excluded.title,
			artist = excluded.artist,
			album = excluded.album,
			genre = excluded.genre,
			year = excluded.year,
			duration = excluded.duration,
			rating = excluded.rating,
			tags = excluded.tags,
			bitrate = excluded.bitrate,
			codec = excluded.codec,
			resolution = excluded.resolution
	`, fileID,
		fields.Title, fields.Artist, fields.Album, fields.Genre,
		fields.Year, fields.Duration, fields.Rating, tags,
		fields.Bitrate, fields.Codec, fields.Resolution,
	)
	done(err)
	return err
}

// Lookup returns the stored metadata for an absolute path. Unknown
// paths and files without a metadata row yield zero Fields, making the
// index a usable metadata.Provider for the evaluator.
func (idx *Index) Lookup(ctx context.Context, absPath string) (metadata.Fields, error) {
	fileID, err := idx.fileID(ctx, absPath)
	if err != nil {
		if errors.Is(err, ErrUnknownFile) || errors.Is(err, sql.ErrNoRows) {
			return metadata.Fields{}, nil
		}
		return metadata.Fields{}, err
	}

	done := observeQuery("track_metadata")

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var (
		fields     metadata.Fields
		title      sql.NullString
		artist     sql.NullString
		album      sql.NullString
		genre      sql.NullString
		year       sql.NullInt64
		duration   sql.NullFloat64
		rating     sql.NullInt64
		tags       sql.NullString
		bitrate    sql.NullInt64
		codec      sql.NullString
		resolution sql.NullString
	)
	err = idx.db.QueryRowContext(ctx, `
		SELECT title, artist, album, genre, year, duration, rating, tags, bitrate, codec, resolution
		FROM track_metadata WHERE file_id = ?
	`, fileID).Scan(&title, &artist, &album, &genre, &year, &duration, &rating, &tags, &bitrate, &codec, &resolution)
	if errors.Is(err, sql.ErrNoRows) {
		done(nil)
		return metadata.Fields{}, nil
	}
	if err != nil {
		done(err)
		return metadata.Fields{}, err
	}
	done(nil)

	if title.Valid {
		fields.Title = metadata.String(title.String)
	}
	if artist.Valid {
		fields.Artist = metadata.String(artist.String)
	}
	if album.Valid {
		fields.Album = metadata.String(album.String)
	}
	if genre.Valid {
		fields.Genre = metadata.String(genre.String)
	}
	if year.Valid {
		fields.Year = metadata.Int(int(year.Int64))
	}
	if duration.Valid {
		fields.Duration = metadata.Float(duration.Float64)
	}
	if rating.Valid {
		fields.Rating = metadata.Int(int(rating.Int64))
	}
	if bitrate.Valid {
		fields.Bitrate = metadata.Int(int(bitrate.Int64))
	}
	if codec.Valid {
		fields.Codec = metadata.String(codec.String)
	}
	if resolution.Valid {
		fields.Resolution = metadata.String(resolution.String)
	}
	fields.Tags = decodeTags(tags)

	return fields, nil
}

// fileID resolves an absolute path to its files row id.
func (idx *Index) fileID(ctx context.Context, absPath string) (int64, error) {
	sourceID, rel, err := idx.resolveSource(ctx, absPath)
	if err != nil {
		return 0, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var id int64
	err = idx.db.QueryRowContext(ctx,
		"SELECT id FROM files WHERE source_id = ? AND path = ?", sourceID, rel,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrUnknownFile, absPath)
	}
	return id, err
}
