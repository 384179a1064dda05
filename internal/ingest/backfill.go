package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/quantpulse/polygon-data/internal/api"
	"github.com/quantpulse/polygon-data/internal/coverage"
	"github.com/quantpulse/polygon-data/internal/model"
	"github.com/quantpulse/polygon-data/internal/store"
)

// TickerSource resolves reference entities for work selection.
type TickerSource interface {
	GetBySymbol(ctx context.Context, symbol string) (model.Ticker, error)
	FirstWithoutCoverage(ctx context.Context, targetDate time.Time, excluded []string) (*model.Ticker, error)
}

// AggregationSink persists fetched buckets one row at a time.
type AggregationSink interface {
	Insert(ctx context.Context, a model.Aggregation) store.Outcome
}

// Backfill advances exactly one entity by one window per cycle. Selection
// prefers the stalest tracked entity, falls back to any entity with no
// coverage at all, and does nothing once everything is caught up.
type Backfill struct {
	client  *api.Client
	tracker *coverage.Tracker
	tickers TickerSource
	aggs    AggregationSink
	policy  WindowPolicy
	logger  *slog.Logger

	now func() time.Time
}

// NewBackfill creates a backfill scheduler.
func NewBackfill(client *api.Client, tracker *coverage.Tracker,
	tickers TickerSource, aggs AggregationSink, policy WindowPolicy,
	logger *slog.Logger) *Backfill {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backfill{
		client:  client,
		tracker: tracker,
		tickers: tickers,
		aggs:    aggs,
		policy:  policy,
		logger:  logger,
		now:     time.Now,
	}
}

// RunCycle selects one work unit, fetches its window and persists the
// buckets. Coverage advances only after the fetch succeeded; a transport
// failure leaves all state untouched so the same window is retried.
func (b *Backfill) RunCycle(ctx context.Context) error {
	unit, err := b.selectWork(ctx)
	if err != nil {
		return err
	}
	if unit == nil {
		b.logger.Debug("backfill converged, nothing to do")
		return nil
	}

	b.logger.Info("backfill window selected",
		"symbol", unit.Symbol,
		"from", model.FormatDate(unit.FromDate),
		"to", model.FormatDate(unit.ToDate),
		"timespan", unit.Timespan,
		"multiplier", unit.Multiplier,
	)

	resp, err := b.client.GetAggregates(ctx, *unit)
	if err != nil {
		return fmt.Errorf("fetch aggregates: %w", err)
	}

	if resp.ResultsCount == 0 || len(resp.Results) == 0 {
		if err := b.tracker.RecordNoData(ctx, unit.Symbol); err != nil {
			return fmt.Errorf("record no-data for %s: %w", unit.Symbol, err)
		}
		b.logger.Info("no aggregate data upstream", "symbol", unit.Symbol)
		return nil
	}

	report := newCycleReport("backfill")
	for _, bar := range resp.Results {
		a := model.Aggregation{
			TickerID:     unit.TickerID,
			OpenPrice:    bar.Open,
			ClosePrice:   bar.Close,
			HighestPrice: bar.High,
			LowestPrice:  bar.Low,
			Volume:       bar.Volume,
			VWAP:         bar.VWAP,
			Transactions: bar.Transactions,
			Timestamp:    bar.TimestampMS / 1000,
			FromDate:     unit.FromDate,
			ToDate:       unit.ToDate,
		}
		key := unit.Symbol + "@" + strconv.FormatInt(a.Timestamp, 10)
		report.Record(key, b.aggs.Insert(ctx, a))
	}
	report.Log(b.logger)

	if err := b.tracker.RecordCoverage(ctx, unit.Symbol, unit.ToDate); err != nil {
		return fmt.Errorf("record coverage for %s: %w", unit.Symbol, err)
	}
	return nil
}

// selectWork picks the next entity and window, or nil when converged.
func (b *Backfill) selectWork(ctx context.Context) (*model.WorkUnit, error) {
	now := b.now().UTC()

	symbol, last, ok, err := b.tracker.StalestEntity(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("select stalest entity: %w", err)
	}
	if ok {
		t, err := b.tickers.GetBySymbol(ctx, symbol)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", symbol, err)
		}
		return unitFor(t, b.policy.Next(&last)), nil
	}

	// Nothing tracked is stale; look for an entity never fetched at all.
	// The exclusion set keeps already-covered and confirmed-empty symbols
	// out of the candidate pool.
	covered, err := b.tracker.CoveredSymbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("read coverage: %w", err)
	}
	noData, err := b.tracker.NoData(ctx)
	if err != nil {
		return nil, fmt.Errorf("read no-data set: %w", err)
	}
	excluded := append(covered, noData...)

	yesterday := now.Truncate(24 * time.Hour).AddDate(0, 0, -1)
	t, err := b.tickers.FirstWithoutCoverage(ctx, yesterday, excluded)
	if err != nil {
		return nil, fmt.Errorf("select uncovered entity: %w", err)
	}
	if t == nil {
		return nil, nil
	}
	return unitFor(*t, b.policy.Next(nil)), nil
}

func unitFor(t model.Ticker, w Window) *model.WorkUnit {
	return &model.WorkUnit{
		TickerID:   t.ID,
		Symbol:     t.Symbol,
		FromDate:   w.From,
		ToDate:     w.To,
		Timespan:   w.Timespan,
		Multiplier: w.Multiplier,
	}
}
