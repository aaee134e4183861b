package store

import (
	"database/sql"
	"errors"
	"time"
)

const (
	projectColumns = "id, name, audio_path, video_path, created_at"
	jobColumns     = "id, uuid, project_id, audio_path, video_path, output_path, status, progress, message, error, created_at, updated_at"
	mediaColumns   = "id, project_id, job_id, file_path, media_type, created_at"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(scanner rowScanner) (*Project, error) {
	var (
		p          Project
		createdRaw string
	)
	if err := scanner.Scan(&p.ID, &p.Name, &p.AudioPath, &p.VideoPath, &createdRaw); err != nil {
		return nil, err
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		p.CreatedAt = created
	}
	return &p, nil
}

func scanJob(scanner rowScanner) (*Job, error) {
	var (
		job        Job
		statusStr  string
		outputPath sql.NullString
		errorText  sql.NullString
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(
		&job.ID,
		&job.Token,
		&job.ProjectID,
		&job.AudioPath,
		&job.VideoPath,
		&outputPath,
		&statusStr,
		&job.Progress,
		&job.Message,
		&errorText,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	job.Status = Status(statusStr)
	job.OutputPath = outputPath.String
	job.Error = errorText.String
	if created, err := parseTimeString(createdRaw); err == nil {
		job.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		job.UpdatedAt = updated
	}
	return &job, nil
}

func scanMedia(scanner rowScanner) (*Media, error) {
	var (
		m          Media
		jobID      sql.NullInt64
		createdRaw string
	)
	if err := scanner.Scan(&m.ID, &m.ProjectID, &jobID, &m.FilePath, &m.MediaType, &createdRaw); err != nil {
		return nil, err
	}
	m.JobID = jobID.Int64
	if created, err := parseTimeString(createdRaw); err == nil {
		m.CreatedAt = created
	}
	return &m, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func clampProgress(percent int) int {
	switch {
	case percent < 0:
		return 0
	case percent > 100:
		return 100
	default:
		return percent
	}
}
