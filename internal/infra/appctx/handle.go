package appctx

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const handleKey ctxKey = "handle"

// WithHandle кладёт handle соединения в контекст
func WithHandle(ctx context.Context, handle uuid.UUID) context.Context {
	return context.WithValue(ctx, handleKey, handle)
}

// Handle извлекает handle соединения из контекста
func Handle(ctx context.Context) (uuid.UUID, bool) {
	handle, ok := ctx.Value(handleKey).(uuid.UUID)
	return handle, ok
}
