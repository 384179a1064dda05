package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantpulse/polygon-data/internal/model"
)

// AggregationStore persists time-series buckets.
type AggregationStore struct {
	pool *pgxpool.Pool
}

// NewAggregationStore creates an AggregationStore on the given pool.
func NewAggregationStore(pool *pgxpool.Pool) *AggregationStore {
	return &AggregationStore{pool: pool}
}

const aggColumns = `id, ticker_id, open_price, close_price, highest_price,
	lowest_price, trading_volume, volume_weighted_average_price,
	number_of_transactions, ts, from_date, to_date`

func scanAggregation(row pgx.Row) (model.Aggregation, error) {
	var a model.Aggregation
	err := row.Scan(&a.ID, &a.TickerID, &a.OpenPrice, &a.ClosePrice,
		&a.HighestPrice, &a.LowestPrice, &a.Volume, &a.VWAP,
		&a.Transactions, &a.Timestamp, &a.FromDate, &a.ToDate)
	return a, err
}

// Create inserts a new bucket. A (ticker_id, ts) collision returns
// ErrConflict.
func (s *AggregationStore) Create(ctx context.Context, a model.Aggregation) (model.Aggregation, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO aggregations (ticker_id, open_price, close_price,
			highest_price, lowest_price, trading_volume,
			volume_weighted_average_price, number_of_transactions, ts,
			from_date, to_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		a.TickerID, a.OpenPrice, a.ClosePrice, a.HighestPrice, a.LowestPrice,
		a.Volume, a.VWAP, a.Transactions, a.Timestamp, a.FromDate, a.ToDate,
	)
	if err := row.Scan(&a.ID); err != nil {
		return model.Aggregation{}, mapWriteErr(err)
	}
	return a, nil
}

// Insert attempts an idempotent insert and classifies the per-row outcome.
func (s *AggregationStore) Insert(ctx context.Context, a model.Aggregation) Outcome {
	_, err := s.Create(ctx, a)
	return outcomeFromErr(err)
}

// ListRange returns buckets for a ticker with ts in [fromTS, toTS],
// ordered by ascending timestamp.
func (s *AggregationStore) ListRange(ctx context.Context, tickerID, fromTS, toTS int64) ([]model.Aggregation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+aggColumns+`
		FROM aggregations
		WHERE ticker_id = $1 AND ts >= $2 AND ts <= $3
		ORDER BY ts`,
		tickerID, fromTS, toTS,
	)
	if err != nil {
		return nil, fmt.Errorf("list aggregations: %w", err)
	}
	defer rows.Close()

	var out []model.Aggregation
	for rows.Next() {
		a, err := scanAggregation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan aggregation: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListLatest returns the most recent limit buckets for a ticker, ordered by
// descending timestamp.
func (s *AggregationStore) ListLatest(ctx context.Context, tickerID int64, limit int) ([]model.Aggregation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+aggColumns+`
		FROM aggregations
		WHERE ticker_id = $1
		ORDER BY ts DESC
		LIMIT $2`,
		tickerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list latest aggregations: %w", err)
	}
	defer rows.Close()

	var out []model.Aggregation
	for rows.Next() {
		a, err := scanAggregation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan aggregation: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
