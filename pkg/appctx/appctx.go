// Package appctx carries a logger and a per-cycle trace id through
// context.Context. Components log through their own package-level loggers
// from pkg/log; the traverser starts a trace per crawl cycle and tags that
// cycle's log lines with it.
package appctx

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type traceKey struct{}

// WithLogger returns a context with an associated logger.
func WithLogger(ctx context.Context, l *zerolog.Logger) context.Context {
	return l.WithContext(ctx)
}

// GetLogger returns the logger associated with the given context
// or a disabled logger in case no logger is stored inside the context.
func GetLogger(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithTrace returns a context carrying the given trace id.
func WithTrace(ctx context.Context, t string) context.Context {
	return context.WithValue(ctx, traceKey{}, t)
}

// WithNewTrace returns a context carrying a freshly minted trace id,
// used to correlate every log line and document emitted during one
// traversal cycle or one retriever call.
func WithNewTrace(ctx context.Context) context.Context {
	return WithTrace(ctx, uuid.NewString())
}

// GetTrace returns the trace id stored in the context, or "unknown" if none was set.
func GetTrace(ctx context.Context) string {
	if t, ok := ctx.Value(traceKey{}).(string); ok {
		return t
	}
	return "unknown"
}
