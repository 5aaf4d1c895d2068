package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id           UUID PRIMARY KEY,
	created_at   TIMESTAMPTZ NOT NULL,
	mode         TEXT NOT NULL,
	ticker       TEXT NOT NULL DEFAULT '',
	horizon      TEXT NOT NULL,
	article_date DATE NOT NULL,
	predictor    TEXT NOT NULL,
	predictions  JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS analyses_created_at_idx ON analyses (created_at DESC);
`

// EnsureSchema creates the history tables if they do not exist.
func EnsureSchema(ctx context.Context, p *pgxpool.Pool) error {
	if _, err := p.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
