package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/listings-service/internal/entity"
)

// RunRepoImpl provides a concrete implementation for the RunRepository interface using PostgreSQL.
type RunRepoImpl struct {
	db *pgxpool.Pool
}

// NewRunRepo creates a new instance of RunRepoImpl.
func NewRunRepo(db *pgxpool.Pool) *RunRepoImpl {
	return &RunRepoImpl{db: db}
}

// Record inserts a run and fills in its generated ID.
func (r *RunRepoImpl) Record(ctx context.Context, run *entity.ExtractionRun) error {
	query := `
		INSERT INTO extraction_runs (org_id, source_kind, strategy, item_count, ok, error_message, http_status_code, duration_ms, run_timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id;
	`
	return r.db.QueryRow(ctx, query,
		run.OrgID,
		string(run.Source),
		run.Strategy,
		run.ItemCount,
		run.OK,
		run.ErrorMessage,
		run.HTTPStatusCode,
		run.DurationMS,
		run.RunTimestamp,
	).Scan(&run.ID)
}

// Recent returns the newest runs first.
func (r *RunRepoImpl) Recent(ctx context.Context, limit int) ([]*entity.ExtractionRun, error) {
	query := `
		SELECT id, org_id, source_kind, strategy, item_count, ok, error_message, http_status_code, duration_ms, run_timestamp
		FROM extraction_runs
		ORDER BY run_timestamp DESC, id DESC
		LIMIT $1;
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []*entity.ExtractionRun{}
	for rows.Next() {
		var run entity.ExtractionRun
		var source string
		if err := rows.Scan(
			&run.ID,
			&run.OrgID,
			&source,
			&run.Strategy,
			&run.ItemCount,
			&run.OK,
			&run.ErrorMessage,
			&run.HTTPStatusCode,
			&run.DurationMS,
			&run.RunTimestamp,
		); err != nil {
			return nil, err
		}
		run.Source = entity.DocumentKind(source)
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}
