package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantpulse/polygon-data/internal/model"
)

// TickerStore persists reference entities.
type TickerStore struct {
	pool *pgxpool.Pool
}

// NewTickerStore creates a TickerStore on the given pool.
func NewTickerStore(pool *pgxpool.Pool) *TickerStore {
	return &TickerStore{pool: pool}
}

const tickerColumns = `id, symbol, name, market, locale, type, active,
	currency_name, composite_figi, share_class_figi, last_updated_utc`

func scanTicker(row pgx.Row) (model.Ticker, error) {
	var t model.Ticker
	err := row.Scan(&t.ID, &t.Symbol, &t.Name, &t.Market, &t.Locale, &t.Type,
		&t.Active, &t.CurrencyName, &t.CompositeFIGI, &t.ShareClassFIGI,
		&t.LastUpdatedUTC)
	return t, err
}

// Create inserts a new ticker and returns it with its assigned id.
// A symbol collision returns ErrConflict.
func (s *TickerStore) Create(ctx context.Context, t model.Ticker) (model.Ticker, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO tickers (symbol, name, market, locale, type, active,
			currency_name, composite_figi, share_class_figi, last_updated_utc)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		t.Symbol, t.Name, t.Market, t.Locale, t.Type, t.Active,
		t.CurrencyName, t.CompositeFIGI, t.ShareClassFIGI, t.LastUpdatedUTC,
	)
	if err := row.Scan(&t.ID); err != nil {
		return model.Ticker{}, mapWriteErr(err)
	}
	return t, nil
}

// Upsert attempts an idempotent insert and classifies the per-row outcome.
func (s *TickerStore) Upsert(ctx context.Context, t model.Ticker) Outcome {
	_, err := s.Create(ctx, t)
	return outcomeFromErr(err)
}

// GetByID returns the ticker with the given id, or ErrNotFound.
func (s *TickerStore) GetByID(ctx context.Context, id int64) (model.Ticker, error) {
	t, err := scanTicker(s.pool.QueryRow(ctx,
		`SELECT `+tickerColumns+` FROM tickers WHERE id = $1`, id))
	if err != nil {
		return model.Ticker{}, mapLookupErr(err)
	}
	return t, nil
}

// GetBySymbol returns the ticker with the given symbol, or ErrNotFound.
func (s *TickerStore) GetBySymbol(ctx context.Context, symbol string) (model.Ticker, error) {
	t, err := scanTicker(s.pool.QueryRow(ctx,
		`SELECT `+tickerColumns+` FROM tickers WHERE symbol = $1`, symbol))
	if err != nil {
		return model.Ticker{}, mapLookupErr(err)
	}
	return t, nil
}

// List returns tickers ordered by id. limit < 0 returns everything.
func (s *TickerStore) List(ctx context.Context, limit, offset int) ([]model.Ticker, error) {
	query := `SELECT ` + tickerColumns + ` FROM tickers ORDER BY id`
	args := []any{}
	if limit >= 0 {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tickers: %w", err)
	}
	defer rows.Close()

	var out []model.Ticker
	for rows.Next() {
		t, err := scanTicker(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticker: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update overwrites the ticker with the given id, or returns ErrNotFound.
func (s *TickerStore) Update(ctx context.Context, id int64, t model.Ticker) (model.Ticker, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE tickers SET symbol = $2, name = $3, market = $4, locale = $5,
			type = $6, active = $7, currency_name = $8, composite_figi = $9,
			share_class_figi = $10, last_updated_utc = $11
		WHERE id = $1`,
		id, t.Symbol, t.Name, t.Market, t.Locale, t.Type, t.Active,
		t.CurrencyName, t.CompositeFIGI, t.ShareClassFIGI, t.LastUpdatedUTC,
	)
	if err != nil {
		return model.Ticker{}, mapWriteErr(err)
	}
	if tag.RowsAffected() == 0 {
		return model.Ticker{}, ErrNotFound
	}
	t.ID = id
	return t, nil
}

// Delete removes the ticker with the given id (aggregations cascade), or
// returns ErrNotFound.
func (s *TickerStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tickers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FirstWithoutCoverage returns the first ticker, by ascending id, that has
// no aggregation bucket whose to_date equals targetDate, skipping excluded
// symbols. Returns nil when every remaining ticker is covered.
func (s *TickerStore) FirstWithoutCoverage(ctx context.Context, targetDate time.Time, excluded []string) (*model.Ticker, error) {
	if excluded == nil {
		excluded = []string{}
	}
	t, err := scanTicker(s.pool.QueryRow(ctx, `
		SELECT `+tickerColumns+`
		FROM tickers t
		WHERE NOT EXISTS (
			SELECT 1 FROM aggregations a
			WHERE a.ticker_id = t.id AND a.to_date = $1
		)
		AND NOT (t.symbol = ANY($2))
		ORDER BY t.id
		LIMIT 1`,
		targetDate, excluded,
	))
	if err != nil {
		if mapLookupErr(err) == ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("select ticker without coverage: %w", err)
	}
	return &t, nil
}
