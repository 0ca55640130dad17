package logger

import (
	"context"

	"github.com/facebookincubator/go-belt/tool/logger"
)

func FromCtx(ctx context.Context) logger.Logger {
	return logger.FromCtx(ctx)
}

func CtxWithLogger(ctx context.Context, l logger.Logger) context.Context {
	return logger.CtxWithLogger(ctx, l)
}

// CtxWithField returns a context whose logger attaches the field to every
// entry.
func CtxWithField(ctx context.Context, key string, value any) context.Context {
	return logger.CtxWithLogger(ctx, logger.FromCtx(ctx).WithField(key, value))
}
