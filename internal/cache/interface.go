package cache

import (
	"context"
	"time"
)

type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

const (
	SummaryKeyPrefix = "summary"

	// SummaryKey is the single dashboard aggregate entry; invalidated on
	// every catalog or ledger write.
	SummaryKey = "summary:inventory"
)
