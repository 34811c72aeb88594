package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// ContextWith stores a logger in the context.
func ContextWith(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext extracts the request-scoped logger from the context.
// Returns zap.NewNop() if none was stored.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
