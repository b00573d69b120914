package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const schema = `
	CREATE TABLE IF NOT EXISTS category_offers (
		source        TEXT        NOT NULL,
		position      INTEGER     NOT NULL,
		category_path TEXT        NOT NULL,
		offers        INTEGER     NOT NULL,
		generated_at  TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (source, position)
	)`

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// EnsureSchema creates the report table when it does not exist.
func EnsureSchema(ctx context.Context, db execer) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create category_offers table: %w", err)
	}
	return nil
}
