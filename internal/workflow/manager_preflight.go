package workflow

import (
	"context"
	"log/slog"

	"kinetic/internal/deps"
	"kinetic/internal/logging"
	"kinetic/internal/preflight"
)

// runPreflightChecks logs filesystem, queue, and engine readiness once at
// startup. Failures are reported but do not block the worker; the affected
// jobs fail with a descriptive error instead.
func (m *Manager) runPreflightChecks(ctx context.Context, logger *slog.Logger) {
	for _, r := range preflight.RunAll(ctx, m.cfg) {
		if r.Passed {
			logger.Debug("preflight check passed",
				logging.String("check", r.Name),
				logging.String("detail", r.Detail),
				logging.String(logging.FieldEventType, "preflight_passed"),
			)
			continue
		}
		logger.Warn("preflight check failed",
			logging.String("check", r.Name),
			logging.String("detail", r.Detail),
			logging.String(logging.FieldEventType, "preflight_failed"),
			logging.String(logging.FieldErrorHint, "fix the reported issue and restart the daemon"),
		)
	}

	for _, missing := range deps.Missing(preflight.CheckSystemDeps(ctx, m.cfg)) {
		logger.Warn("engine unavailable",
			logging.String("engine", missing.Name),
			logging.String("command", missing.Command),
			logging.String("detail", missing.Detail),
			logging.String(logging.FieldEventType, "dependency_missing"),
			logging.String(logging.FieldErrorHint, "install the engine or set its binary in the config"),
		)
	}
}
