package repository

import (
	"context"

	"github.com/user/listings-service/internal/entity"
)

// CarRepository stores the curated car list.
type CarRepository interface {
	// List returns the active cars in insertion order.
	List(ctx context.Context) ([]entity.Car, error)
	// Upsert merges car over the stored record with the same OrderNo, or
	// appends it. The stored result is always active.
	Upsert(ctx context.Context, car entity.Car) (entity.Car, error)
	// Deactivate hides the car with orderNo. It reports whether the car existed.
	Deactivate(ctx context.Context, orderNo string) (bool, error)
}
