package observability

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog for structured JSON logging. Every log line carries
// the correlation ID as trace_id when logged through WithContext, so request
// logs, store logs, and consumer logs can be joined by log tooling.
type Logger struct {
	zl zerolog.Logger
}

// NewLogger creates a new structured logger writing to stdout.
func NewLogger(level string) *Logger {
	return NewLoggerWithWriter(os.Stdout, level)
}

// NewLoggerWithWriter creates a logger with a custom writer (for testing).
func NewLoggerWithWriter(w io.Writer, level string) *Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }

	zl := zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Logger()

	return &Logger{zl: zl}
}

// WithContext returns a logger bound to the context's correlation ID.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	zl := l.zl
	if id := GetCorrelationID(ctx); id != "" {
		zl = zl.With().Str("trace_id", id).Logger()
	}
	return &Logger{zl: zl}
}

// WithComponent returns a logger with a component name.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		zl: l.zl.With().Str("component", component).Logger(),
	}
}

// WithField adds a field to the logger.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{
		zl: l.zl.With().Interface(key, value).Logger(),
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string) {
	l.zl.Debug().Msg(msg)
}

// Info logs an info message.
func (l *Logger) Info(msg string) {
	l.zl.Info().Msg(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.zl.Warn().Msg(msg)
}

// Error logs an error message.
func (l *Logger) Error(msg string, err error) {
	l.zl.Error().Err(err).Msg(msg)
}

// Fatal logs a fatal message and exits.
func (l *Logger) Fatal(msg string, err error) {
	l.zl.Fatal().Err(err).Msg(msg)
}

// Event starts a raw zerolog event at info level for callers that need
// typed fields on a single line.
func (l *Logger) Event() *zerolog.Event {
	return l.zl.Info()
}

// ErrorEvent starts a raw zerolog event at error level.
func (l *Logger) ErrorEvent() *zerolog.Event {
	return l.zl.Error()
}
