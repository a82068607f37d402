package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a track has no mapping.
var ErrNotFound = errors.New("track not found in library")

// Mapping links a song to its lyric text and timed subtitle track.
type Mapping struct {
	Track        string
	TextPath     string
	SubtitlePath string
	UpdatedAt    time.Time
}

// SetMapping stores m. Empty paths keep whatever was stored for the track before.
func (s *Store) SetMapping(ctx context.Context, m Mapping) error {
	if m.Track == "" {
		return errors.New("mapping track is empty")
	}

	_, err := s.execWithRetry(ctx, `
		INSERT INTO mappings (track, text_path, subtitle_path, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(track) DO UPDATE SET
			text_path = CASE WHEN excluded.text_path != '' THEN excluded.text_path ELSE mappings.text_path END,
			subtitle_path = CASE WHEN excluded.subtitle_path != '' THEN excluded.subtitle_path ELSE mappings.subtitle_path END,
			updated_at = excluded.updated_at`,
		m.Track, m.TextPath, m.SubtitlePath, formatTime(s.now()),
	)
	if err != nil {
		return fmt.Errorf("set mapping for %s: %w", m.Track, err)
	}
	return nil
}

// Mapping returns the stored mapping for track, or ErrNotFound.
func (s *Store) Mapping(ctx context.Context, track string) (Mapping, error) {
	ctx = ensureContext(ctx)

	var (
		m       Mapping
		updated string
	)
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			"SELECT track, text_path, subtitle_path, updated_at FROM mappings WHERE track = ?",
			track,
		).Scan(&m.Track, &m.TextPath, &m.SubtitlePath, &updated)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Mapping{}, fmt.Errorf("%w: %s", ErrNotFound, track)
	}
	if err != nil {
		return Mapping{}, fmt.Errorf("get mapping for %s: %w", track, err)
	}
	m.UpdatedAt = parseTime(updated)
	return m, nil
}

// Mappings lists every mapping ordered by track.
func (s *Store) Mappings(ctx context.Context) ([]Mapping, error) {
	ctx = ensureContext(ctx)

	rows, err := s.db.QueryContext(ctx,
		"SELECT track, text_path, subtitle_path, updated_at FROM mappings ORDER BY track")
	if err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	defer rows.Close()

	var mappings []Mapping
	for rows.Next() {
		var (
			m       Mapping
			updated string
		)
		if err := rows.Scan(&m.Track, &m.TextPath, &m.SubtitlePath, &updated); err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		m.UpdatedAt = parseTime(updated)
		mappings = append(mappings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	return mappings, nil
}

// RemoveMapping deletes the mapping for track. It reports whether one existed.
func (s *Store) RemoveMapping(ctx context.Context, track string) (bool, error) {
	res, err := s.execWithRetry(ctx, "DELETE FROM mappings WHERE track = ?", track)
	if err != nil {
		return false, fmt.Errorf("remove mapping for %s: %w", track, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove mapping for %s: %w", track, err)
	}
	return n > 0, nil
}
