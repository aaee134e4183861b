package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"kinetic/internal/logging"
	"kinetic/internal/metrics"
	"kinetic/internal/pipeline"
	"kinetic/internal/services"
	"kinetic/internal/store"
)

func (m *Manager) processJob(ctx context.Context, id int64) {
	ctx = services.WithJobID(ctx, id)
	ctx = services.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, m.logger)

	job, err := m.store.GetJob(ctx, id)
	if err != nil {
		m.setLastError(err)
		logger.Error("failed to load job",
			logging.Error(err),
			logging.String(logging.FieldEventType, "job_load_failed"),
			logging.String(logging.FieldErrorHint, "check database access"))
		return
	}
	if job == nil {
		logger.Debug("job no longer exists; discarding queue entry")
		return
	}
	ctx = services.WithProjectID(ctx, job.ProjectID)
	logger = logging.WithContext(ctx, m.logger)

	ok, err := m.store.MarkRunning(ctx, id, pipeline.ProgressFingerprint, store.MessageStarting)
	if err != nil {
		m.setLastError(err)
		logger.Error("failed to mark job running", logging.Error(err),
			logging.String(logging.FieldEventType, "job_transition_failed"))
		return
	}
	if !ok {
		logger.Debug("job removed before start; discarding queue entry")
		return
	}
	job.Status = store.StatusRunning
	job.Progress = pipeline.ProgressFingerprint
	job.Message = store.MessageStarting
	job.Error = ""
	m.setCurrent(job)
	metrics.JobRunning.Set(1)
	defer func() {
		metrics.JobRunning.Set(0)
		m.setCurrent(nil)
	}()

	started := time.Now()
	logger.Info("job started",
		logging.String(logging.FieldEventType, "job_start"),
		logging.String("audio_path", job.AudioPath),
		logging.String("video_path", job.VideoPath))

	result, runErr := m.executor.Run(ctx, pipeline.Request{
		JobID:     job.ID,
		Token:     job.Token,
		AudioPath: job.AudioPath,
		VideoPath: job.VideoPath,
	}, &jobReporter{store: m.store, logger: logger})
	if runErr != nil {
		if ctx.Err() != nil {
			logger.Info("job interrupted by shutdown",
				logging.String(logging.FieldEventType, "job_interrupted"))
			return
		}
		m.handleJobFailure(ctx, logger, job, runErr)
		return
	}

	media, err := m.store.CompleteJob(ctx, job.ID, result.OutputPath)
	if err != nil {
		m.setLastError(err)
		logger.Error("failed to record job completion",
			logging.Error(err),
			logging.String(logging.FieldEventType, "job_complete_persist_failed"),
			logging.String(logging.FieldErrorHint, "check database access"))
		return
	}
	if media == nil {
		logger.Debug("job removed while running; result not recorded",
			logging.String("output_path", result.OutputPath))
		return
	}
	metrics.JobsFinished.WithLabelValues(string(store.StatusDone)).Inc()

	job.Status = store.StatusDone
	job.Progress = pipeline.ProgressDone
	job.Message = store.MessageDone
	job.OutputPath = result.OutputPath
	m.recordFinished(job)
	logger.Info("job completed",
		logging.String(logging.FieldEventType, "job_complete"),
		logging.String("output_path", result.OutputPath),
		logging.Int64("media_id", media.ID),
		logging.Bool("transcript_cached", result.TranscriptCached),
		logging.Bool("beats_cached", result.BeatsCached),
		logging.Duration("job_duration", time.Since(started)))
}

// jobReporter persists progress for the running job.
type jobReporter struct {
	store  *store.Store
	logger *slog.Logger
}

func (r *jobReporter) ReportProgress(ctx context.Context, jobID int64, percent int, message string) {
	ok, err := r.store.UpdateProgress(ctx, jobID, percent, message)
	if err != nil {
		r.logger.Warn("failed to persist job progress",
			logging.Error(err),
			logging.Int("percent", percent),
			logging.String(logging.FieldEventType, "job_progress_persist_failed"),
			logging.String(logging.FieldErrorHint, "check database access"))
		return
	}
	if !ok {
		r.logger.Debug("progress dropped for missing job", logging.Int("percent", percent))
		return
	}
	r.logger.Debug("job progress",
		logging.Int("percent", percent),
		logging.String("message", message))
}
