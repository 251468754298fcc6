package record

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with writer-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithOutput adds the output name to the logger.
func (l *Logger) WithOutput(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("output", name),
	}
}

// LogInit logs the outcome of opening the output.
func (l *Logger) LogInit(ctx context.Context, maxBufferPoints uint32, err error) {
	if err != nil {
		l.ErrorContext(ctx, "writer init failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "writer initialized",
			"max_buffer_points", maxBufferPoints,
		)
	}
}

// LogAdd logs a failed entrypoint. Rejections are routine and logged at debug.
func (l *Logger) LogAdd(points int, err error) {
	if err == nil {
		return
	}
	switch CodeOf(err) {
	case EntrypointRejected:
		l.Debug("entrypoint rejected",
			"buffer_points", points,
		)
	default:
		l.Warn("entrypoint not added",
			"buffer_points", points,
			"error", err,
		)
	}
}

// LogFlush logs a flush of the current entry.
func (l *Logger) LogFlush(points, written int, err error) {
	if err != nil {
		l.Error("flush failed",
			"points", points,
			"error", err,
		)
	} else if written > 0 {
		l.Debug("entry flushed",
			"points", points,
			"bytes", written,
		)
	}
}

// LogClose logs closing the output.
func (l *Logger) LogClose(stats Stats, err error) {
	if err != nil {
		l.Error("close failed",
			"records", stats.Records,
			"error", err,
		)
	} else {
		l.Info("writer closed",
			"records", stats.Records,
			"bytes", stats.Bytes,
			"accepted", stats.Accepted,
			"rejected", stats.Rejected,
		)
	}
}
