package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/listings-service/internal/entity"
)

// CarRepoImpl provides a concrete implementation for the CarRepository interface using PostgreSQL.
type CarRepoImpl struct {
	db *pgxpool.Pool
}

// NewCarRepo creates a new instance of CarRepoImpl.
func NewCarRepo(db *pgxpool.Pool) *CarRepoImpl {
	return &CarRepoImpl{db: db}
}

const carColumns = `order_no, title, make, model, year, mileage, price, image, link, active, extra`

func scanCar(row pgx.Row) (entity.Car, error) {
	var c entity.Car
	var active bool
	var extra []byte
	err := row.Scan(&c.OrderNo, &c.Title, &c.Make, &c.Model, &c.Year, &c.Mileage, &c.Price, &c.Image, &c.Link, &active, &extra)
	if err != nil {
		return entity.Car{}, err
	}
	c.SetActive(active)
	if len(extra) > 0 {
		if err := json.Unmarshal(extra, &c.Extra); err != nil {
			return entity.Car{}, fmt.Errorf("decode extra fields of car %s: %w", c.OrderNo, err)
		}
		if len(c.Extra) == 0 {
			c.Extra = nil
		}
	}
	return c, nil
}

func encodeExtra(extra map[string]json.RawMessage) (string, error) {
	if len(extra) == 0 {
		return "{}", nil
	}
	raw, err := json.Marshal(extra)
	return string(raw), err
}

// List returns active cars in insertion order.
func (r *CarRepoImpl) List(ctx context.Context) ([]entity.Car, error) {
	rows, err := r.db.Query(ctx, `SELECT `+carColumns+` FROM cars WHERE active ORDER BY id ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cars := []entity.Car{}
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

// Upsert locks the existing row, merges the update over it and writes the
// result back in one transaction.
func (r *CarRepoImpl) Upsert(ctx context.Context, car entity.Car) (entity.Car, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return entity.Car{}, err
	}
	defer tx.Rollback(ctx)

	stored, err := scanCar(tx.QueryRow(ctx,
		`SELECT `+carColumns+` FROM cars WHERE order_no = $1 FOR UPDATE;`, car.OrderNo))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return entity.Car{}, err
	}

	merged, err := entity.MergeCar(stored, car)
	if err != nil {
		return entity.Car{}, fmt.Errorf("merge car %s: %w", car.OrderNo, err)
	}

	query := `
		INSERT INTO cars (` + carColumns + `, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE, $10, NOW())
		ON CONFLICT (order_no) DO UPDATE SET
			title = EXCLUDED.title,
			make = EXCLUDED.make,
			model = EXCLUDED.model,
			year = EXCLUDED.year,
			mileage = EXCLUDED.mileage,
			price = EXCLUDED.price,
			image = EXCLUDED.image,
			link = EXCLUDED.link,
			active = TRUE,
			extra = EXCLUDED.extra,
			updated_at = NOW();
	`
	extra, err := encodeExtra(merged.Extra)
	if err != nil {
		return entity.Car{}, err
	}
	_, err = tx.Exec(ctx, query,
		merged.OrderNo,
		merged.Title,
		merged.Make,
		merged.Model,
		merged.Year,
		merged.Mileage,
		merged.Price,
		merged.Image,
		merged.Link,
		extra,
	)
	if err != nil {
		return entity.Car{}, err
	}
	return merged, tx.Commit(ctx)
}

func (r *CarRepoImpl) Deactivate(ctx context.Context, orderNo string) (bool, error) {
	tag, err := r.db.Exec(ctx, `UPDATE cars SET active = FALSE, updated_at = NOW() WHERE order_no = $1;`, orderNo)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
