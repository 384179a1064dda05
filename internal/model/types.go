package model

import (
	"fmt"
	"time"
)

// DateFormat is the date literal format used throughout the system.
const DateFormat = "2006-01-02"

// ErrBadDate reports a malformed date literal.
type ErrBadDate struct {
	Value string
}

func (e *ErrBadDate) Error() string {
	return fmt.Sprintf("invalid date format %q, expected YYYY-MM-DD", e.Value)
}

// ParseDate parses a YYYY-MM-DD literal into a UTC date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, &ErrBadDate{Value: s}
	}
	return t, nil
}

// FormatDate renders a date as a YYYY-MM-DD literal.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// Ticker represents a tracked reference entity (a tradeable symbol).
//
// Identity is the Symbol, unique across the system. Rows are created by the
// discovery poller and mutated only through the CRUD surface; the backfill
// scheduler never touches them.
type Ticker struct {
	ID             int64  // Surrogate key
	Symbol         string // Unique ticker symbol (e.g., "AAPL")
	Name           string // Company / instrument name
	Market         string // Market (e.g., "stocks")
	Locale         string // Locale (e.g., "us")
	Type           string // Instrument type (e.g., "CS")
	Active         bool   // Whether the ticker is actively traded
	CurrencyName   string // Trading currency
	CompositeFIGI  string // Optional external identifier
	ShareClassFIGI string // Optional external identifier
	LastUpdatedUTC string // Upstream last-updated timestamp
}

// Aggregation represents one time-windowed metrics bucket for a ticker.
//
// Buckets are immutable once written; the [FromDate, ToDate) window records
// which backfill request produced them.
type Aggregation struct {
	ID           int64
	TickerID     int64
	OpenPrice    float64
	ClosePrice   float64
	HighestPrice float64
	LowestPrice  float64
	Volume       float64 // Traded volume
	VWAP         float64 // Volume-weighted average price
	Transactions int64   // Number of transactions in the bucket
	Timestamp    int64   // Bucket start (Unix seconds)
	FromDate     time.Time
	ToDate       time.Time
}

// WorkUnit describes one scheduler-selected backfill step. It is computed
// fresh each cycle and never persisted.
type WorkUnit struct {
	TickerID   int64
	Symbol     string
	FromDate   time.Time
	ToDate     time.Time
	Timespan   string // Bucket granularity unit ("minute" or "day")
	Multiplier int    // Bucket granularity multiplier
}
