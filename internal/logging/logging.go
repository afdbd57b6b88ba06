// Package logging provides the structured logger used across the service,
// backed by zap, together with the context keys for request-scoped metadata.
package logging

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey string

const (
	// TraceIDKey carries the per-request trace identifier.
	TraceIDKey contextKey = "trace_id"
	// UserIDKey carries the authenticated caller's identity.
	UserIDKey contextKey = "user_id"
)

// Logger wraps a zap logger with field-chaining helpers.
type Logger struct {
	zl *zap.Logger
}

// New creates a production logger for the named component at the given level.
// Unknown levels fall back to info.
func New(service, level string) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		zl = zap.NewNop()
	}
	return &Logger{zl: zl.With(zap.String("service", service))}
}

// NewDefault creates a logger for the named component at info level.
func NewDefault(service string) *Logger {
	return New(service, "info")
}

// NewNop returns a logger that discards everything. For tests.
func NewNop() *Logger {
	return &Logger{zl: zap.NewNop()}
}

// WithField returns a logger with an extra field attached.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{zl: l.zl.With(zap.Any(key, value))}
}

// WithFields returns a logger with all given fields attached.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	zfields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zfields = append(zfields, zap.Any(k, v))
	}
	return &Logger{zl: l.zl.With(zfields...)}
}

// WithError returns a logger with the error attached.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{zl: l.zl.With(zap.Error(err))}
}

// WithContext returns a logger carrying the trace and user identifiers found
// in ctx, if any.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	zl := l.zl
	if traceID := GetTraceID(ctx); traceID != "" {
		zl = zl.With(zap.String("trace_id", traceID))
	}
	if userID := GetUserID(ctx); userID != "" {
		zl = zl.With(zap.String("user_id", userID))
	}
	return &Logger{zl: zl}
}

func (l *Logger) Debug(msg string) { l.zl.Debug(msg) }
func (l *Logger) Info(msg string)  { l.zl.Info(msg) }
func (l *Logger) Warn(msg string)  { l.zl.Warn(msg) }
func (l *Logger) Error(msg string) { l.zl.Error(msg) }

// LogRequest records one completed HTTP request.
func (l *Logger) LogRequest(ctx context.Context, method, path string, status int, duration time.Duration) {
	l.WithContext(ctx).zl.Info("http request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("duration", duration),
	)
}

// LogSecurityEvent records an auth or rate-limit related event.
func (l *Logger) LogSecurityEvent(ctx context.Context, event string, fields map[string]interface{}) {
	logger := l.WithContext(ctx).WithFields(fields)
	logger.zl.Warn("security event", zap.String("event", event))
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() {
	_ = l.zl.Sync()
}

// NewTraceID generates a fresh trace identifier.
func NewTraceID() string {
	return uuid.NewString()
}

// WithTraceID stores a trace identifier in the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		return ctx
	}
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID returns the trace identifier from the context, or "".
func GetTraceID(ctx context.Context) string {
	v, _ := ctx.Value(TraceIDKey).(string)
	return v
}

// WithUserID stores the authenticated caller identity in the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if userID == "" {
		return ctx
	}
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserID returns the authenticated caller identity from the context, or "".
func GetUserID(ctx context.Context) string {
	v, _ := ctx.Value(UserIDKey).(string)
	return v
}
