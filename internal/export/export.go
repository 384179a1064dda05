package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/quantpulse/polygon-data/internal/bus"
	"github.com/quantpulse/polygon-data/internal/model"
)

// TickerSource resolves symbols to reference entities.
type TickerSource interface {
	GetBySymbol(ctx context.Context, symbol string) (model.Ticker, error)
}

// AggregationSource reads stored buckets by timestamp range.
type AggregationSource interface {
	ListRange(ctx context.Context, tickerID, fromTS, toTS int64) ([]model.Aggregation, error)
}

// header is the artifact column order. Consumers key on these names, so
// the order is part of the external contract.
var header = []string{
	"open_price",
	"close_price",
	"highest_price",
	"lowest_price",
	"trading_volume",
	"volume_weighted_average_price",
	"number_of_transactions",
	"timestamp",
}

// Exporter writes a ticker's buckets for a date range to a CSV artifact
// and announces the artifact on the bus.
type Exporter struct {
	tickers TickerSource
	aggs    AggregationSource
	bus     bus.Publisher
	dir     string
	logger  *slog.Logger
}

// NewExporter creates an Exporter writing artifacts under dir.
func NewExporter(tickers TickerSource, aggs AggregationSource, pub bus.Publisher,
	dir string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{tickers: tickers, aggs: aggs, bus: pub, dir: dir, logger: logger}
}

// FileName returns the artifact name for a symbol and inclusive date range.
func FileName(symbol string, from, to time.Time) string {
	return fmt.Sprintf("aggregations_of_%s_from_%s_to_%s.csv",
		symbol, model.FormatDate(from), model.FormatDate(to))
}

// Export writes the artifact for symbol over the inclusive date range
// [from, to], newest bucket first, then announces it on the bus. The
// returned name is the artifact file name, not a path. An unknown symbol
// surfaces the store's not-found error; an empty range still produces a
// header-only artifact.
func (e *Exporter) Export(ctx context.Context, symbol string, from, to time.Time) (string, error) {
	t, err := e.tickers.GetBySymbol(ctx, symbol)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", symbol, err)
	}

	// The end date is inclusive: cover through its last second.
	fromTS := from.UTC().Unix()
	toTS := to.UTC().AddDate(0, 0, 1).Add(-time.Second).Unix()

	rows, err := e.aggs.ListRange(ctx, t.ID, fromTS, toTS)
	if err != nil {
		return "", fmt.Errorf("list buckets for %s: %w", symbol, err)
	}

	name := FileName(symbol, from, to)
	if err := e.writeArtifact(name, rows); err != nil {
		return "", err
	}

	e.logger.Info("artifact written",
		"symbol", symbol,
		"file", name,
		"rows", len(rows),
	)

	// Fire-and-forget: a failed announcement is logged, not retried, and
	// does not fail the export.
	ev := bus.Event{FileName: name, Ticker: symbol}
	if err := e.bus.Publish(ctx, ev); err != nil {
		e.logger.Warn("artifact announcement failed", "file", name, "err", err)
	}
	return name, nil
}

func (e *Exporter) writeArtifact(name string, rows []model.Aggregation) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	f, err := os.Create(filepath.Join(e.dir, name))
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	// Newest first.
	for i := len(rows) - 1; i >= 0; i-- {
		a := rows[i]
		record := []string{
			formatFloat(a.OpenPrice),
			formatFloat(a.ClosePrice),
			formatFloat(a.HighestPrice),
			formatFloat(a.LowestPrice),
			formatFloat(a.Volume),
			formatFloat(a.VWAP),
			strconv.FormatInt(a.Transactions, 10),
			strconv.FormatInt(a.Timestamp, 10),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush artifact: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
