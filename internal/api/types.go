package api

import "github.com/quantpulse/polygon-data/internal/model"

// TickerRecord is one reference-data record from /v3/reference/tickers.
type TickerRecord struct {
	Ticker         string `json:"ticker"`
	Name           string `json:"name"`
	Market         string `json:"market"`
	Locale         string `json:"locale"`
	Type           string `json:"type"`
	Active         bool   `json:"active"`
	CurrencyName   string `json:"currency_name"`
	CompositeFIGI  string `json:"composite_figi"`
	ShareClassFIGI string `json:"share_class_figi"`
	LastUpdatedUTC string `json:"last_updated_utc"`
}

// ToModel converts an API record to the domain type.
func (r TickerRecord) ToModel() model.Ticker {
	return model.Ticker{
		Symbol:         r.Ticker,
		Name:           r.Name,
		Market:         r.Market,
		Locale:         r.Locale,
		Type:           r.Type,
		Active:         r.Active,
		CurrencyName:   r.CurrencyName,
		CompositeFIGI:  r.CompositeFIGI,
		ShareClassFIGI: r.ShareClassFIGI,
		LastUpdatedUTC: r.LastUpdatedUTC,
	}
}

// TickersPage is one page of the paginated reference-tickers listing.
// NextURL is absent on the final page.
type TickersPage struct {
	Results []TickerRecord `json:"results"`
	Count   int            `json:"count"`
	NextURL string         `json:"next_url"`
}

// AggBar is one aggregate bar from /v2/aggs. Polygon uses short keys:
// c/h/l/n/o/t/v/vw for close, high, low, transaction count, open,
// timestamp (milliseconds), volume and VWAP.
type AggBar struct {
	Close        float64 `json:"c"`
	High         float64 `json:"h"`
	Low          float64 `json:"l"`
	Transactions int64   `json:"n"`
	Open         float64 `json:"o"`
	TimestampMS  int64   `json:"t"`
	Volume       float64 `json:"v"`
	VWAP         float64 `json:"vw"`
}

// AggsResponse is the response of the aggregate-range endpoint.
type AggsResponse struct {
	Ticker       string   `json:"ticker"`
	ResultsCount int      `json:"resultsCount"`
	Results      []AggBar `json:"results"`
}
