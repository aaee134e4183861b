package services

import "context"

type ctxKey int

const (
	jobIDKey ctxKey = iota
	projectIDKey
	stageKey
	requestIDKey
)

// WithJobID annotates context with the job being processed.
func WithJobID(ctx context.Context, id int64) context.Context {
	return withID(ctx, jobIDKey, id)
}

// JobIDFromContext extracts the job identifier if present.
func JobIDFromContext(ctx context.Context) (int64, bool) {
	return idFrom(ctx, jobIDKey)
}

// WithProjectID annotates context with the project that owns the job.
func WithProjectID(ctx context.Context, id int64) context.Context {
	return withID(ctx, projectIDKey, id)
}

// ProjectIDFromContext extracts the project identifier if present.
func ProjectIDFromContext(ctx context.Context) (int64, bool) {
	return idFrom(ctx, projectIDKey)
}

// WithStage annotates context with the pipeline stage name. Blank names leave
// ctx unchanged.
func WithStage(ctx context.Context, stage string) context.Context {
	return withText(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	return textFrom(ctx, stageKey)
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withText(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return textFrom(ctx, requestIDKey)
}

func withID(ctx context.Context, key ctxKey, id int64) context.Context {
	if id <= 0 {
		return ctx
	}
	return context.WithValue(ctx, key, id)
}

func idFrom(ctx context.Context, key ctxKey) (int64, bool) {
	id, ok := ctx.Value(key).(int64)
	return id, ok
}

func withText(ctx context.Context, key ctxKey, value string) context.Context {
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func textFrom(ctx context.Context, key ctxKey) (string, bool) {
	value, ok := ctx.Value(key).(string)
	return value, ok && value != ""
}
