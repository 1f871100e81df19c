package logger

import (
	"context"
	"log/slog"

	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/rbac"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/requestid"
)

type loggerCtxKey struct{}

// WithLogger stores l in the context.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, l)
}

// FromContext returns the request logger, or slog.Default when none is set.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}

// RequestIDExtractor adds the request id to records logged with a request context.
func RequestIDExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id := requestid.FromContext(ctx)
		if id == "" {
			return slog.Attr{}, false
		}
		return RequestID(id), true
	}
}

// IdentityExtractor adds the verified subject id to records.
func IdentityExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id, ok := rbac.FromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return UserID(id.SubjectID), true
	}
}
