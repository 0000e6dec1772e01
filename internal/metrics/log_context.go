/*-------------------------------------------------------------------------
 *
 * log_context.go
 *    Log context helpers for structured logging
 *
 * Provides helpers for consistent structured logging with request_id,
 * flow_id, and run_id fields across all components.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/metrics/log_context.go
 *
 *-------------------------------------------------------------------------
 */

package metrics

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	flowIDKey    contextKey = "flow_id"
	runIDKey     contextKey = "run_id"
)

/* WithLogContext adds logging fields to context */
func WithLogContext(ctx context.Context, requestID, flowID, runID string) context.Context {
	if requestID != "" {
		ctx = context.WithValue(ctx, requestIDKey, requestID)
	}
	if flowID != "" {
		ctx = context.WithValue(ctx, flowIDKey, flowID)
	}
	if runID != "" {
		ctx = context.WithValue(ctx, runIDKey, runID)
	}
	return ctx
}

/* WithFlowIDLogContext adds flow ID to log context */
func WithFlowIDLogContext(ctx context.Context, flowID uuid.UUID) context.Context {
	return context.WithValue(ctx, flowIDKey, flowID.String())
}

/* WithRunIDLogContext adds run ID to log context */
func WithRunIDLogContext(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

/* GetRequestIDFromContext gets request ID from context */
func GetRequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

/* GetFlowIDFromContext gets flow ID from context */
func GetFlowIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(flowIDKey).(string); ok {
		return id
	}
	if id, ok := ctx.Value(flowIDKey).(uuid.UUID); ok {
		return id.String()
	}
	return ""
}

/* GetRunIDFromContext gets run ID from context */
func GetRunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

/* LoggerFromContext creates a zerolog logger with fields from context */
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	logger := *zerolog.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	/* Add context fields */
	requestID := GetRequestIDFromContext(ctx)
	flowID := GetFlowIDFromContext(ctx)
	runID := GetRunIDFromContext(ctx)

	if requestID != "" {
		logger = logger.With().Str("request_id", requestID).Logger()
	}
	if flowID != "" {
		logger = logger.With().Str("flow_id", flowID).Logger()
	}
	if runID != "" {
		logger = logger.With().Str("run_id", runID).Logger()
	}

	return logger
}

/* LogWithContext logs a message with context fields */
func LogWithContext(ctx context.Context, level zerolog.Level, message string, fields map[string]interface{}) {
	logger := LoggerFromContext(ctx)
	event := logger.WithLevel(level)

	for key, value := range fields {
		event = event.Interface(key, value)
	}

	event.Msg(message)
}

/* DebugWithContext logs a debug message with context */
func DebugWithContext(ctx context.Context, message string, fields map[string]interface{}) {
	LogWithContext(ctx, zerolog.DebugLevel, message, fields)
}

/* InfoWithContext logs an info message with context */
func InfoWithContext(ctx context.Context, message string, fields map[string]interface{}) {
	LogWithContext(ctx, zerolog.InfoLevel, message, fields)
}

/* WarnWithContext logs a warning message with context */
func WarnWithContext(ctx context.Context, message string, fields map[string]interface{}) {
	LogWithContext(ctx, zerolog.WarnLevel, message, fields)
}

/* ErrorWithContext logs an error message with context */
func ErrorWithContext(ctx context.Context, message string, err error, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	LogWithContext(ctx, zerolog.ErrorLevel, message, fields)
}
