package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetMedia fetches a media record by identifier, returning nil when absent.
func (s *Store) GetMedia(ctx context.Context, id int64) (*Media, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+mediaColumns+` FROM media WHERE id = ?`, id)
	media, err := scanMedia(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get media: %w", err)
	}
	return media, nil
}

// ListMedia returns all media records, newest first.
func (s *Store) ListMedia(ctx context.Context) ([]*Media, error) {
	return s.queryMedia(ctx, `SELECT `+mediaColumns+` FROM media ORDER BY id DESC`)
}

// MediaForProject returns the project's media, newest first.
func (s *Store) MediaForProject(ctx context.Context, projectID int64) ([]*Media, error) {
	return s.queryMedia(ctx, `SELECT `+mediaColumns+` FROM media WHERE project_id = ? ORDER BY id DESC`, projectID)
}

func (s *Store) queryMedia(ctx context.Context, query string, args ...any) ([]*Media, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query media: %w", err)
	}
	defer rows.Close()

	var out []*Media
	for rows.Next() {
		media, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		out = append(out, media)
	}
	return out, rows.Err()
}
