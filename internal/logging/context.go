package logging

import (
	"context"
	"log/slog"

	"peaksite/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldBuildID is the standardized structured logging key for build run identifiers.
	FieldBuildID = "build_id"
	// FieldStep is the standardized structured logging key for build step names.
	FieldStep = "step"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
	// FieldEventType classifies a log line for later filtering.
	FieldEventType = "event_type"
	// FieldSource names the media source file a line is about.
	FieldSource = "source"
	// FieldOutput names the derived file a line is about.
	FieldOutput = "output"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.BuildIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldBuildID, id))
	}
	if step, ok := services.StepFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStep, step))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
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

// WithStep annotates ctx with a step name; alias of services.WithStep kept
// here so step code only imports logging.
func WithStep(ctx context.Context, step string) context.Context {
	return services.WithStep(ctx, step)
}
