package utils

import (
	"context"
	"time"
)

// DefaultDBTimeout bounds every single-statement store call. Bulk restore
// paths manage their own transaction deadline instead.
const DefaultDBTimeout = 5 * time.Second

func WithDBTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultDBTimeout)
}
