package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS cars (
	id         BIGSERIAL PRIMARY KEY,
	order_no   TEXT NOT NULL UNIQUE,
	title      TEXT NOT NULL DEFAULT '',
	make       TEXT NOT NULL DEFAULT '',
	model      TEXT NOT NULL DEFAULT '',
	year       INTEGER NOT NULL DEFAULT 0,
	mileage    INTEGER NOT NULL DEFAULT 0,
	price      TEXT NOT NULL DEFAULT '',
	image      TEXT NOT NULL DEFAULT '',
	link       TEXT NOT NULL DEFAULT '',
	active     BOOLEAN NOT NULL DEFAULT TRUE,
	extra      JSONB NOT NULL DEFAULT '{}',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

ALTER TABLE cars ADD COLUMN IF NOT EXISTS extra JSONB NOT NULL DEFAULT '{}';

CREATE TABLE IF NOT EXISTS extraction_runs (
	id               BIGSERIAL PRIMARY KEY,
	org_id           TEXT NOT NULL,
	source_kind      TEXT NOT NULL DEFAULT '',
	strategy         TEXT NOT NULL DEFAULT '',
	item_count       INTEGER NOT NULL DEFAULT 0,
	ok               BOOLEAN NOT NULL,
	error_message    TEXT NOT NULL DEFAULT '',
	http_status_code INTEGER NOT NULL DEFAULT 0,
	duration_ms      INTEGER NOT NULL DEFAULT 0,
	run_timestamp    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS extraction_runs_run_timestamp_idx ON extraction_runs (run_timestamp DESC);
`

// EnsureSchema creates the tables the adapters need.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, schema)
	return err
}
