package logging

import (
	"context"
	"log/slog"

	"autosub/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldFile is the base name of the input video being processed.
	FieldFile = "file"
	// FieldJobID is the standardized key for the per-file job identifier.
	FieldJobID = "job_id"
	// FieldStage is the standardized key for pipeline stage names.
	FieldStage = "stage"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to try next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	scope := services.ScopeFrom(ctx)
	var fields []slog.Attr
	if scope.File != "" {
		fields = append(fields, slog.String(FieldFile, scope.File))
	}
	if scope.JobID != "" {
		fields = append(fields, slog.String(FieldJobID, scope.JobID))
	}
	if scope.Stage != "" {
		fields = append(fields, slog.String(FieldStage, scope.Stage))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
