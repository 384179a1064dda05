package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DDL statements applied at startup. Aggregations are unique per
// (ticker_id, ts) so a re-fetched window lands as conflicts instead of
// duplicate rows, and cascade-delete with their ticker.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS tickers (
		id               BIGSERIAL PRIMARY KEY,
		symbol           TEXT NOT NULL UNIQUE,
		name             TEXT NOT NULL DEFAULT '',
		market           TEXT NOT NULL DEFAULT '',
		locale           TEXT NOT NULL DEFAULT '',
		type             TEXT NOT NULL DEFAULT '',
		active           BOOLEAN NOT NULL DEFAULT TRUE,
		currency_name    TEXT NOT NULL DEFAULT '',
		composite_figi   TEXT NOT NULL DEFAULT '',
		share_class_figi TEXT NOT NULL DEFAULT '',
		last_updated_utc TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS aggregations (
		id                            BIGSERIAL PRIMARY KEY,
		ticker_id                     BIGINT NOT NULL REFERENCES tickers(id) ON DELETE CASCADE,
		open_price                    DOUBLE PRECISION NOT NULL,
		close_price                   DOUBLE PRECISION NOT NULL,
		highest_price                 DOUBLE PRECISION NOT NULL,
		lowest_price                  DOUBLE PRECISION NOT NULL,
		trading_volume                DOUBLE PRECISION NOT NULL,
		volume_weighted_average_price DOUBLE PRECISION NOT NULL,
		number_of_transactions        BIGINT NOT NULL,
		ts                            BIGINT NOT NULL,
		from_date                     DATE NOT NULL,
		to_date                       DATE NOT NULL,
		UNIQUE (ticker_id, ts)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_aggregations_to_date ON aggregations (to_date)`,
	`CREATE INDEX IF NOT EXISTS idx_aggregations_ticker_ts ON aggregations (ticker_id, ts)`,
}

// EnsureSchema creates the tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
