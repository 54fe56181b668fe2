package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	UserIDKey    contextKey = "user_id"
)

// StackTraceHandler enriches records with request scoped attributes taken from the
// context and, when enabled, attaches a stack trace to error records.
type StackTraceHandler struct {
	slog.Handler
	withStack bool
}

func (h *StackTraceHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if reqID, ok := ctx.Value(RequestIDKey).(string); ok {
			r.AddAttrs(slog.String("request_id", reqID))
		}

		if userID, ok := ctx.Value(UserIDKey).(string); ok && userID != "" {
			r.AddAttrs(slog.String("user_id", userID))
		}
	}

	if h.withStack && r.Level >= slog.LevelError {
		buf := make([]byte, 4096)
		n := runtime.Stack(buf, false)
		r.AddAttrs(slog.String("stack_trace", string(buf[:n])))
	}

	return h.Handler.Handle(ctx, r)
}

func (h *StackTraceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &StackTraceHandler{Handler: h.Handler.WithAttrs(attrs), withStack: h.withStack}
}

func (h *StackTraceHandler) WithGroup(name string) slog.Handler {
	return &StackTraceHandler{Handler: h.Handler.WithGroup(name), withStack: h.withStack}
}

// NewHandler builds the JSON handler used by the service. Stack traces are only
// attached in development so production logs never carry them.
func NewHandler(w io.Writer, level slog.Leveler, development bool) *StackTraceHandler {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	if level.Level() == slog.LevelDebug {
		opts.AddSource = true
	}

	return &StackTraceHandler{
		Handler:   slog.NewJSONHandler(w, opts),
		withStack: development,
	}
}

// InitStructuredLogger initialize structured logger
func InitStructuredLogger(level slog.Leveler, development bool) {
	slog.SetDefault(slog.New(NewHandler(os.Stdout, level, development)))
}

// WithUserID stores the caller id so every log line of the request carries it.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}
