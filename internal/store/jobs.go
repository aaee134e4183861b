package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultJobListLimit bounds ListJobs when callers pass a non-positive limit.
const DefaultJobListLimit = 200

// NewToken returns a short correlation token for a job.
func NewToken() string {
	return uuid.NewString()[:8]
}

func insertJob(ctx context.Context, tx *sql.Tx, projectID int64, audioPath, videoPath string) (int64, error) {
	now := formatTime(time.Now())
	res, err := tx.ExecContext(ctx,
		`INSERT INTO jobs (
            uuid, project_id, audio_path, video_path, status, progress, message, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		NewToken(), projectID, audioPath, videoPath, StatusQueued, 0, MessageQueued, now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("insert job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// CreateJob inserts a queued job for an existing project. It returns nil when
// the project does not exist.
func (s *Store) CreateJob(ctx context.Context, projectID int64, audioPath, videoPath string) (*Job, error) {
	var jobID int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM projects WHERE id = ?`, projectID).Scan(&exists); err != nil {
			return fmt.Errorf("check project: %w", err)
		}
		if exists == 0 {
			return nil
		}
		var err error
		jobID, err = insertJob(ctx, tx, projectID, audioPath, videoPath)
		return err
	})
	if err != nil {
		return nil, err
	}
	if jobID == 0 {
		return nil, nil
	}
	return s.GetJob(ctx, jobID)
}

// GetJob fetches a job by identifier, returning nil when absent.
func (s *Store) GetJob(ctx context.Context, id int64) (*Job, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// ListJobs returns up to limit jobs, newest first.
func (s *Store) ListJobs(ctx context.Context, limit int) ([]*Job, error) {
	if limit <= 0 {
		limit = DefaultJobListLimit
	}
	return s.queryJobs(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY id DESC LIMIT ?`, limit)
}

// JobsForProject returns the project's jobs, newest first.
func (s *Store) JobsForProject(ctx context.Context, projectID int64) ([]*Job, error) {
	return s.queryJobs(ctx, `SELECT `+jobColumns+` FROM jobs WHERE project_id = ? ORDER BY id DESC`, projectID)
}

// JobsByStatus returns jobs in any of the given states, in creation order.
func (s *Store) JobsByStatus(ctx context.Context, statuses ...Status) ([]*Job, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(statuses)), ",")
	args := make([]any, 0, len(statuses))
	for _, status := range statuses {
		args = append(args, status)
	}
	return s.queryJobs(ctx, `SELECT `+jobColumns+` FROM jobs WHERE status IN (`+placeholders+`) ORDER BY id ASC`, args...)
}

// CountByStatus returns job counts keyed by status.
func (s *Store) CountByStatus(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT status, COUNT(1) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[Status(status)] = count
	}
	return counts, rows.Err()
}

func (s *Store) queryJobs(ctx context.Context, query string, args ...any) ([]*Job, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// MarkRunning moves a job to running with the given progress and message.
// It reports false when the job no longer exists.
func (s *Store) MarkRunning(ctx context.Context, id int64, progress int, message string) (bool, error) {
	res, err := s.execWithRetry(ctx,
		`UPDATE jobs SET status = ?, progress = ?, message = ?, error = NULL, output_path = NULL, updated_at = ?
         WHERE id = ?`,
		StatusRunning, clampProgress(progress), message, formatTime(time.Now()), id,
	)
	if err != nil {
		return false, fmt.Errorf("mark running: %w", err)
	}
	return affected(res)
}

// UpdateProgress records progress for a running job. Percent is clamped into
// [0,100] and never lowers the stored value; the message is always replaced.
// It reports false when the job is gone or no longer running.
func (s *Store) UpdateProgress(ctx context.Context, id int64, percent int, message string) (bool, error) {
	res, err := s.execWithRetry(ctx,
		`UPDATE jobs SET progress = MAX(progress, ?), message = ?, updated_at = ?
         WHERE id = ? AND status = ?`,
		clampProgress(percent), message, formatTime(time.Now()), id, StatusRunning,
	)
	if err != nil {
		return false, fmt.Errorf("update progress: %w", err)
	}
	return affected(res)
}

// CompleteJob records the output media and marks the job done in one
// transaction. It returns nil media when the job no longer exists.
func (s *Store) CompleteJob(ctx context.Context, id int64, outputPath string) (*Media, error) {
	var mediaID int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		mediaID = 0
		var projectID int64
		err := tx.QueryRowContext(ctx, `SELECT project_id FROM jobs WHERE id = ?`, id).Scan(&projectID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load job: %w", err)
		}

		now := formatTime(time.Now())
		res, err := tx.ExecContext(ctx,
			`INSERT INTO media (project_id, job_id, file_path, media_type, created_at) VALUES (?, ?, ?, ?, ?)`,
			projectID, id, outputPath, MediaTypeVideo, now,
		)
		if err != nil {
			return fmt.Errorf("insert media: %w", err)
		}
		if mediaID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE jobs SET status = ?, progress = 100, message = ?, output_path = ?, error = NULL, updated_at = ?
             WHERE id = ?`,
			StatusDone, MessageDone, outputPath, now, id,
		); err != nil {
			return fmt.Errorf("mark done: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("complete job: %w", err)
	}
	if mediaID == 0 {
		return nil, nil
	}
	return s.GetMedia(ctx, mediaID)
}

// FailJob marks a job as failed with the given detail. It reports false when
// the job no longer exists.
func (s *Store) FailJob(ctx context.Context, id int64, detail string) (bool, error) {
	detail = strings.TrimSpace(detail)
	if detail == "" {
		detail = "unknown failure"
	}
	res, err := s.execWithRetry(ctx,
		`UPDATE jobs SET status = ?, progress = 0, message = ?, error = ?, output_path = NULL, updated_at = ?
         WHERE id = ?`,
		StatusError, MessageFailed, detail, formatTime(time.Now()), id,
	)
	if err != nil {
		return false, fmt.Errorf("fail job: %w", err)
	}
	return affected(res)
}

// FailRunning marks every running job as failed, used when the daemon starts
// after an unclean shutdown.
func (s *Store) FailRunning(ctx context.Context, detail string) (int64, error) {
	res, err := s.execWithRetry(ctx,
		`UPDATE jobs SET status = ?, progress = 0, message = ?, error = ?, output_path = NULL, updated_at = ?
         WHERE status = ?`,
		StatusError, MessageFailed, detail, formatTime(time.Now()), StatusRunning,
	)
	if err != nil {
		return 0, fmt.Errorf("fail running jobs: %w", err)
	}
	return res.RowsAffected()
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
