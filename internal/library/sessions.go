package library

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// SessionRecord is one completed timing session.
type SessionRecord struct {
	ID           string
	Track        string
	SubtitlePath string
	Lines        int
	Warnings     int
	CreatedAt    time.Time
}

// RecordSession appends rec to the history and points the track's mapping at the new
// subtitle file.
func (s *Store) RecordSession(ctx context.Context, rec SessionRecord) error {
	if rec.ID == "" || rec.Track == "" {
		return errors.New("session record needs an id and a track")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}

	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin session tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO sessions (id, track, subtitle_path, lines, warnings, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.Track, rec.SubtitlePath, rec.Lines, rec.Warnings, formatTime(rec.CreatedAt),
		); err != nil {
			return fmt.Errorf("record session %s: %w", rec.ID, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO mappings (track, subtitle_path, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(track) DO UPDATE SET
				subtitle_path = excluded.subtitle_path,
				updated_at = excluded.updated_at`,
			rec.Track, rec.SubtitlePath, formatTime(rec.CreatedAt),
		); err != nil {
			return fmt.Errorf("update mapping for %s: %w", rec.Track, err)
		}

		return tx.Commit()
	})
}

// Sessions returns the history for track, newest first. An empty track lists every session.
func (s *Store) Sessions(ctx context.Context, track string, limit int) ([]SessionRecord, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = -1
	}

	query := "SELECT id, track, subtitle_path, lines, warnings, created_at FROM sessions"
	args := []any{}
	if track != "" {
		query += " WHERE track = ?"
		args = append(args, track)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var (
			rec     SessionRecord
			created string
		)
		if err := rows.Scan(&rec.ID, &rec.Track, &rec.SubtitlePath, &rec.Lines, &rec.Warnings, &created); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		rec.CreatedAt = parseTime(created)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return records, nil
}
