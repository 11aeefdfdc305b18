package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/user/listings-service/internal/entity"
	"github.com/user/listings-service/internal/repository"
)

// CarService manages the curated car list.
type CarService interface {
	ActiveCars(ctx context.Context) ([]entity.Car, error)
	Upsert(ctx context.Context, car entity.Car) (entity.Car, error)
	Deactivate(ctx context.Context, orderNo string) (bool, error)
}

type carUseCase struct {
	repo   repository.CarRepository
	logger *zap.Logger
}

func NewCarService(repo repository.CarRepository, logger *zap.Logger) CarService {
	return &carUseCase{repo: repo, logger: logger}
}

func (uc *carUseCase) ActiveCars(ctx context.Context) ([]entity.Car, error) {
	cars, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	return cars, nil
}

func (uc *carUseCase) Upsert(ctx context.Context, car entity.Car) (entity.Car, error) {
	car.OrderNo = strings.TrimSpace(car.OrderNo)
	if car.OrderNo == "" {
		return entity.Car{}, fmt.Errorf("%w: orderNo", ErrMissingFields)
	}
	stored, err := uc.repo.Upsert(ctx, car)
	if err != nil {
		return entity.Car{}, fmt.Errorf("upsert car %s: %w", car.OrderNo, err)
	}
	uc.logger.Info("car upserted", zap.String("order_no", stored.OrderNo))
	return stored, nil
}

func (uc *carUseCase) Deactivate(ctx context.Context, orderNo string) (bool, error) {
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return false, fmt.Errorf("%w: orderNo", ErrMissingFields)
	}
	found, err := uc.repo.Deactivate(ctx, orderNo)
	if err != nil {
		return false, fmt.Errorf("deactivate car %s: %w", orderNo, err)
	}
	if found {
		uc.logger.Info("car deactivated", zap.String("order_no", orderNo))
	}
	return found, nil
}
