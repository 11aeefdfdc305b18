package repository

import (
	"context"

	"github.com/user/listings-service/internal/entity"
)

// RunRepository keeps a log of extraction runs.
type RunRepository interface {
	Record(ctx context.Context, run *entity.ExtractionRun) error
	// Recent returns up to limit runs, newest first.
	Recent(ctx context.Context, limit int) ([]*entity.ExtractionRun, error)
}
