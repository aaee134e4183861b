package workflow

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"kinetic/internal/logging"
	"kinetic/internal/metrics"
	"kinetic/internal/services"
	"kinetic/internal/store"
)

func (m *Manager) handleJobFailure(ctx context.Context, logger *slog.Logger, job *store.Job, runErr error) {
	detail := failureDetail(runErr)
	m.setLastError(runErr)

	attrs := []logging.Attr{
		logging.String("resolved_status", string(store.StatusError)),
		logging.String("error_detail", detail),
		logging.String("error_kind", services.Kind(runErr).Error()),
		logging.Alert("job_failure"),
		logging.String(logging.FieldErrorHint, failureHint(runErr)),
		logging.Error(runErr),
	}
	logging.ErrorWithContext(logger, "job failed", "job_failure", attrs...)

	ok, err := m.store.FailJob(ctx, job.ID, detail)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("daemon shutting down, could not record job failure")
		} else {
			logger.Error("failed to persist job failure", logging.Error(err))
		}
		return
	}
	if !ok {
		logger.Debug("job removed while running; failure not recorded")
		return
	}
	metrics.JobsFinished.WithLabelValues(string(store.StatusError)).Inc()

	job.Status = store.StatusError
	job.Progress = 0
	job.Message = store.MessageFailed
	job.Error = detail
	m.recordFinished(job)
}

func failureDetail(err error) string {
	if err == nil {
		return "job failed without error detail"
	}
	detail := strings.TrimSpace(err.Error())
	if detail == "" {
		return "job failed without error detail"
	}
	return detail
}

func failureHint(err error) string {
	switch services.Kind(err) {
	case services.ErrValidation:
		return "check that the job's audio and video files exist and are readable"
	case services.ErrExternalTool:
		return "run kinetic deps and inspect the engine output in the error detail"
	case services.ErrConfiguration:
		return "run kinetic config validate"
	default:
		return "create a new job for the project to retry"
	}
}
