package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/user/listings-service/internal/entity"
)

// CarRepoImpl keeps the car list as a JSON array in a single file.
type CarRepoImpl struct {
	path string
	mu   sync.Mutex
}

func NewCarRepo(path string) *CarRepoImpl {
	return &CarRepoImpl{path: path}
}

// readAll treats a missing, empty or unreadable file as an empty list.
func (r *CarRepoImpl) readAll() []entity.Car {
	raw, err := os.ReadFile(r.path)
	if err != nil || len(raw) == 0 {
		return []entity.Car{}
	}
	var cars []entity.Car
	if err := json.Unmarshal(raw, &cars); err != nil {
		return []entity.Car{}
	}
	return cars
}

// writeAll replaces the file atomically via a temp file in the same directory.
func (r *CarRepoImpl) writeAll(cars []entity.Car) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(cars, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".cars-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), r.path)
}

func (r *CarRepoImpl) List(_ context.Context) ([]entity.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.readAll()
	active := make([]entity.Car, 0, len(all))
	for _, c := range all {
		if c.IsActive() {
			active = append(active, c)
		}
	}
	return active, nil
}

func (r *CarRepoImpl) Upsert(_ context.Context, car entity.Car) (entity.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cars := r.readAll()
	idx := -1
	for i := range cars {
		if cars[i].OrderNo == car.OrderNo {
			idx = i
			break
		}
	}

	var base entity.Car
	if idx >= 0 {
		base = cars[idx]
	}
	stored, err := entity.MergeCar(base, car)
	if err != nil {
		return entity.Car{}, fmt.Errorf("merge car %s: %w", car.OrderNo, err)
	}

	if idx >= 0 {
		cars[idx] = stored
	} else {
		cars = append(cars, stored)
	}
	if err := r.writeAll(cars); err != nil {
		return entity.Car{}, err
	}
	return stored, nil
}

func (r *CarRepoImpl) Deactivate(_ context.Context, orderNo string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cars := r.readAll()
	for i := range cars {
		if cars[i].OrderNo == orderNo {
			cars[i].SetActive(false)
			return true, r.writeAll(cars)
		}
	}
	return false, nil
}
