package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quantpulse/polygon-data/internal/api"
	"github.com/quantpulse/polygon-data/internal/model"
	"github.com/quantpulse/polygon-data/internal/state"
	"github.com/quantpulse/polygon-data/internal/store"
)

// TickerSink persists discovered reference entities one row at a time.
type TickerSink interface {
	Upsert(ctx context.Context, t model.Ticker) store.Outcome
}

// Discovery walks the upstream reference-tickers listing one page per
// cycle, persisting rows idempotently and carrying the pagination cursor
// in the state store between cycles.
type Discovery struct {
	client *api.Client
	state  state.Store
	sink   TickerSink
	logger *slog.Logger

	pageLimit       int
	rediscoverAfter time.Duration
}

// NewDiscovery creates a discovery poller. rediscoverAfter bounds how long
// the exhausted flag suppresses pagination before the listing is walked
// again from the first page.
func NewDiscovery(client *api.Client, st state.Store, sink TickerSink,
	pageLimit int, rediscoverAfter time.Duration, logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{
		client:          client,
		state:           st,
		sink:            sink,
		logger:          logger,
		pageLimit:       pageLimit,
		rediscoverAfter: rediscoverAfter,
	}
}

// RunCycle processes at most one listing page. A transport failure aborts
// the cycle without touching the cursor, so the same page is retried next
// cycle. Row-level persistence failures do not abort the page.
func (d *Discovery) RunCycle(ctx context.Context) error {
	_, exhausted, err := d.state.Get(ctx, state.KeyLastTickersURL)
	if err != nil {
		return fmt.Errorf("read exhausted flag: %w", err)
	}
	if exhausted {
		d.logger.Debug("discovery exhausted, skipping cycle")
		return nil
	}

	pageURL, ok, err := d.state.Get(ctx, state.KeyNextTickersURL)
	if err != nil {
		return fmt.Errorf("read pagination cursor: %w", err)
	}
	if !ok || pageURL == "" {
		pageURL = d.client.FirstTickersPageURL(d.pageLimit)
	}

	page, err := d.client.GetTickersPage(ctx, pageURL)
	if err != nil {
		return fmt.Errorf("fetch tickers page: %w", err)
	}

	report := newCycleReport("discovery")
	for _, rec := range page.Results {
		report.Record(rec.Ticker, d.sink.Upsert(ctx, rec.ToModel()))
	}
	report.Log(d.logger)

	if page.Count < d.pageLimit {
		if err := d.state.SetWithTTL(ctx, state.KeyLastTickersURL, pageURL, d.rediscoverAfter); err != nil {
			return fmt.Errorf("mark discovery exhausted: %w", err)
		}
		d.logger.Info("discovery reached final page",
			"count", page.Count,
			"rediscover_after", d.rediscoverAfter,
		)
	}

	// Advance the cursor even on a short page: when the exhausted flag
	// expires, an empty cursor restarts from the first page.
	if err := d.state.Set(ctx, state.KeyNextTickersURL, page.NextURL); err != nil {
		return fmt.Errorf("store pagination cursor: %w", err)
	}
	return nil
}
