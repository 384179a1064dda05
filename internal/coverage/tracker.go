package coverage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/quantpulse/polygon-data/internal/model"
	"github.com/quantpulse/polygon-data/internal/state"
)

// Tracker maintains per-ticker backfill progress in the state store: the
// last successfully backfilled to_date per symbol, and the set of symbols
// confirmed to have no aggregate data upstream.
//
// Every mutation is a read-then-overwrite of the whole coverage map. A
// crash between read and write loses at most that cycle's progress; the
// next cycle re-derives a valid selection from whatever state persisted.
type Tracker struct {
	store state.Store
}

// NewTracker creates a Tracker on the given store.
func NewTracker(store state.Store) *Tracker {
	return &Tracker{store: store}
}

// Coverage returns the symbol -> last backfilled to_date mapping.
func (t *Tracker) Coverage(ctx context.Context) (map[string]time.Time, error) {
	raw, err := t.rawCoverage(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]time.Time, len(raw))
	for symbol, dateStr := range raw {
		d, err := model.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("coverage entry %s: %w", symbol, err)
		}
		out[symbol] = d
	}
	return out, nil
}

// CoveredSymbols returns the symbols present in the coverage map, sorted.
func (t *Tracker) CoveredSymbols(ctx context.Context) ([]string, error) {
	raw, err := t.rawCoverage(ctx)
	if err != nil {
		return nil, err
	}
	symbols := make([]string, 0, len(raw))
	for s := range raw {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols, nil
}

// StalestEntity returns a symbol whose last backfilled date is strictly
// older than yesterday relative to now, along with that date. Symbols are
// scanned in sorted order so the pick is deterministic. Symbols in the
// no-data set are skipped permanently: their coverage can never advance,
// so re-selecting them would refetch the same empty window forever. ok is
// false when every remaining symbol is caught up.
func (t *Tracker) StalestEntity(ctx context.Context, now time.Time) (symbol string, last time.Time, ok bool, err error) {
	cov, err := t.Coverage(ctx)
	if err != nil {
		return "", time.Time{}, false, err
	}
	noData, err := t.NoData(ctx)
	if err != nil {
		return "", time.Time{}, false, err
	}
	skip := make(map[string]bool, len(noData))
	for _, s := range noData {
		skip[s] = true
	}

	yesterday := now.UTC().Truncate(24 * time.Hour).AddDate(0, 0, -1)

	symbols := make([]string, 0, len(cov))
	for s := range cov {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	for _, s := range symbols {
		if skip[s] {
			continue
		}
		if cov[s].Before(yesterday) {
			return s, cov[s], true, nil
		}
	}
	return "", time.Time{}, false, nil
}

// RecordCoverage sets symbol's last backfilled date to toDate.
func (t *Tracker) RecordCoverage(ctx context.Context, symbol string, toDate time.Time) error {
	raw, err := t.rawCoverage(ctx)
	if err != nil {
		return err
	}
	raw[symbol] = model.FormatDate(toDate)

	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshal coverage: %w", err)
	}
	return t.store.Set(ctx, state.KeyComputedAggregations, string(data))
}

// NoData returns the symbols confirmed to have no aggregate data.
func (t *Tracker) NoData(ctx context.Context) ([]string, error) {
	return t.store.ListRange(ctx, state.KeyTickersWithoutAggs)
}

// RecordNoData adds symbol to the no-data set. Recording the same symbol
// twice is a no-op.
func (t *Tracker) RecordNoData(ctx context.Context, symbol string) error {
	existing, err := t.NoData(ctx)
	if err != nil {
		return err
	}
	for _, s := range existing {
		if s == symbol {
			return nil
		}
	}
	return t.store.PushList(ctx, state.KeyTickersWithoutAggs, symbol)
}

func (t *Tracker) rawCoverage(ctx context.Context) (map[string]string, error) {
	val, ok, err := t.store.Get(ctx, state.KeyComputedAggregations)
	if err != nil {
		return nil, err
	}
	if !ok || val == "" {
		return map[string]string{}, nil
	}

	var raw map[string]string
	if err := json.Unmarshal([]byte(val), &raw); err != nil {
		return nil, fmt.Errorf("decode coverage map: %w", err)
	}
	return raw, nil
}
