package workflow

import (
	"context"
	"fmt"
	"os"
	"strings"

	"kinetic/internal/config"
	"kinetic/internal/logging"
	"kinetic/internal/metrics"
	"kinetic/internal/services"
	"kinetic/internal/store"
)

// CreateJob records a queued job for an existing project and enqueues it.
// Input paths are stored as absolute paths. Invalid inputs create nothing and
// return services.ErrValidation. When the queue rejects the job, the recorded
// job is returned together with a services.ErrTransient error; it stays queued
// and startup recovery runs it, so callers must not resubmit.
func (m *Manager) CreateJob(ctx context.Context, projectID int64, audioPath, videoPath string) (*store.Job, error) {
	audioPath, videoPath, err := validateInputs(audioPath, videoPath)
	if err != nil {
		return nil, err
	}
	job, err := m.store.CreateJob(ctx, projectID, audioPath, videoPath)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, services.Wrap(services.ErrNotFound, "", "create job", fmt.Sprintf("project %d not found", projectID), nil)
	}
	if err := m.enqueue(ctx, job); err != nil {
		return job, err
	}
	return job, nil
}

// CreateJobForProject queues a new job using the project's stored inputs.
func (m *Manager) CreateJobForProject(ctx context.Context, projectID int64) (*store.Job, error) {
	project, err := m.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, services.Wrap(services.ErrNotFound, "", "create job", fmt.Sprintf("project %d not found", projectID), nil)
	}
	return m.CreateJob(ctx, project.ID, project.AudioPath, project.VideoPath)
}

// CreateProject records a project with its first job and enqueues the job.
// Enqueue failures follow CreateJob: the records are returned with the error.
func (m *Manager) CreateProject(ctx context.Context, name, audioPath, videoPath string) (*store.Project, *store.Job, error) {
	audioPath, videoPath, err := validateInputs(audioPath, videoPath)
	if err != nil {
		return nil, nil, err
	}
	project, job, err := m.store.CreateProjectWithJob(ctx, name, audioPath, videoPath)
	if err != nil {
		return nil, nil, err
	}
	if err := m.enqueue(ctx, job); err != nil {
		return project, job, err
	}
	return project, job, nil
}

// GetJob returns the job or nil when it does not exist.
func (m *Manager) GetJob(ctx context.Context, id int64) (*store.Job, error) {
	return m.store.GetJob(ctx, id)
}

// enqueue pushes a recorded job onto the queue. When the queue rejects it the
// record stays queued and startup recovery picks it up.
func (m *Manager) enqueue(ctx context.Context, job *store.Job) error {
	if err := m.queue.Enqueue(ctx, job.ID); err != nil {
		m.logger.Error("failed to enqueue job",
			logging.Int64(logging.FieldJobID, job.ID),
			logging.Error(err),
			logging.String(logging.FieldEventType, "job_enqueue_failed"),
			logging.String(logging.FieldErrorHint, "check queue backend connectivity; the job is retried on restart"))
		return services.Wrap(services.ErrTransient, "", "enqueue job", fmt.Sprintf("job %d", job.ID), err)
	}
	metrics.JobsEnqueued.Inc()
	m.refreshQueueDepth(ctx)
	m.logger.Info("job queued",
		logging.Int64(logging.FieldJobID, job.ID),
		logging.Int64(logging.FieldProjectID, job.ProjectID),
		logging.String(logging.FieldEventType, "job_queued"))
	return nil
}

// validateInputs resolves both paths against the daemon's working directory.
// Engines run inside per-job workspaces, so relative paths never reach them.
func validateInputs(audioPath, videoPath string) (string, string, error) {
	audioPath, err := requireInputFile("audio", audioPath)
	if err != nil {
		return "", "", err
	}
	videoPath, err = requireInputFile("video", videoPath)
	if err != nil {
		return "", "", err
	}
	return audioPath, videoPath, nil
}

func requireInputFile(kind, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", services.Wrap(services.ErrValidation, "", "validate input", kind+" path required", nil)
	}
	resolved, err := config.ExpandPath(path)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "", "validate input", kind+" path unresolvable", err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "", "validate input", kind+" file not accessible", err)
	}
	if !info.Mode().IsRegular() {
		return "", services.Wrap(services.ErrValidation, "", "validate input", fmt.Sprintf("%s path %s is not a regular file", kind, resolved), nil)
	}
	return resolved, nil
}
