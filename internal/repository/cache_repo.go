package repository

import (
	"context"
	"time"

	"github.com/user/listings-service/internal/entity"
)

// ResultCache holds recent listings snapshots keyed by organization.
type ResultCache interface {
	// Get returns the snapshot stored under key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) (*entity.ListingsSnapshot, bool, error)
	// Set stores a snapshot that expires after ttl.
	Set(ctx context.Context, key string, snap *entity.ListingsSnapshot, ttl time.Duration) error
	// Delete drops the snapshot under key, used to force a refresh.
	Delete(ctx context.Context, key string) error
}
