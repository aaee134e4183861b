package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// CreateProjectWithJob inserts a project and its first queued job atomically.
func (s *Store) CreateProjectWithJob(ctx context.Context, name, audioPath, videoPath string) (*Project, *Job, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultProjectName
	}
	var projectID, jobID int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		now := formatTime(time.Now())
		res, err := tx.ExecContext(ctx,
			`INSERT INTO projects (name, audio_path, video_path, created_at) VALUES (?, ?, ?, ?)`,
			name, audioPath, videoPath, now,
		)
		if err != nil {
			return fmt.Errorf("insert project: %w", err)
		}
		if projectID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		jobID, err = insertJob(ctx, tx, projectID, audioPath, videoPath)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	return project, job, nil
}

// GetProject fetches a project by identifier, returning nil when absent.
func (s *Store) GetProject(ctx context.Context, id int64) (*Project, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return project, nil
}

// ListProjects returns all projects, newest first.
func (s *Store) ListProjects(ctx context.Context) ([]*Project, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT `+projectColumns+` FROM projects ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// DeleteProject removes a project together with its jobs and media records.
// Files on disk are left in place. It reports whether a project was removed.
func (s *Store) DeleteProject(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}
