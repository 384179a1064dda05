package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quantpulse/polygon-data/internal/model"
)

func TestFirstTickersPageURL(t *testing.T) {
	c := NewClient("https://api.polygon.test", "")
	got := c.FirstTickersPageURL(1000)
	want := "https://api.polygon.test/v3/reference/tickers?limit=1000"
	if got != want {
		t.Errorf("FirstTickersPageURL = %q, want %q", got, want)
	}
}

func TestGetTickersPage(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("cursor") {
		case "":
			json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]any{
					{"ticker": "AAPL", "name": "Apple Inc.", "active": true, "market": "stocks"},
					{"ticker": "MSFT", "name": "Microsoft Corp.", "active": true, "market": "stocks"},
				},
				"count":    2,
				"next_url": server.URL + "/v3/reference/tickers?cursor=abc",
			})
		case "abc":
			json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]any{
					{"ticker": "GOOG", "name": "Alphabet Inc.", "active": true, "market": "stocks"},
				},
				"count": 1,
			})
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer server.Close()

	c := NewClient(server.URL, "")
	ctx := context.Background()

	first, err := c.GetTickersPage(ctx, c.FirstTickersPageURL(2))
	if err != nil {
		t.Fatalf("GetTickersPage(first): %v", err)
	}
	if first.Count != 2 || len(first.Results) != 2 {
		t.Fatalf("first page count = %d results = %d, want 2/2", first.Count, len(first.Results))
	}
	if first.NextURL == "" {
		t.Fatal("first page NextURL is empty")
	}

	second, err := c.GetTickersPage(ctx, first.NextURL)
	if err != nil {
		t.Fatalf("GetTickersPage(next): %v", err)
	}
	if second.Count != 1 || second.NextURL != "" {
		t.Errorf("second page count = %d next = %q, want 1 and empty", second.Count, second.NextURL)
	}
	if second.Results[0].Ticker != "GOOG" {
		t.Errorf("second page ticker = %q, want GOOG", second.Results[0].Ticker)
	}
}

func TestTickerRecordToModel(t *testing.T) {
	rec := TickerRecord{
		Ticker:         "AAPL",
		Name:           "Apple Inc.",
		Market:         "stocks",
		Locale:         "us",
		Type:           "CS",
		Active:         true,
		CurrencyName:   "usd",
		CompositeFIGI:  "BBG000B9XRY4",
		ShareClassFIGI: "BBG001S5N8V8",
		LastUpdatedUTC: "2024-06-01T00:00:00Z",
	}
	m := rec.ToModel()
	if m.Symbol != "AAPL" || m.Name != "Apple Inc." || !m.Active {
		t.Errorf("ToModel = %+v, fields not mapped", m)
	}
	if m.CompositeFIGI != rec.CompositeFIGI || m.ShareClassFIGI != rec.ShareClassFIGI {
		t.Error("FIGI identifiers not mapped")
	}
}

func TestGetAggregates(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{
			"ticker":       "AAPL",
			"resultsCount": 1,
			"results": []map[string]any{
				{"c": 192.5, "h": 193.1, "l": 191.8, "n": 4521, "o": 192.0, "t": 1700000000000, "v": 1250000.0, "vw": 192.4},
			},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, "")
	unit := model.WorkUnit{
		Symbol:     "AAPL",
		FromDate:   time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
		ToDate:     time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
		Timespan:   "day",
		Multiplier: 1,
	}
	resp, err := c.GetAggregates(context.Background(), unit)
	if err != nil {
		t.Fatalf("GetAggregates: %v", err)
	}

	wantPath := "/v2/aggs/ticker/AAPL/range/1/day/2024-06-02/2024-06-02"
	if gotPath != wantPath {
		t.Errorf("path = %q, want %q", gotPath, wantPath)
	}
	if resp.ResultsCount != 1 || len(resp.Results) != 1 {
		t.Fatalf("resultsCount = %d results = %d, want 1/1", resp.ResultsCount, len(resp.Results))
	}

	bar := resp.Results[0]
	if bar.TimestampMS != 1700000000000 {
		t.Errorf("TimestampMS = %d, want 1700000000000", bar.TimestampMS)
	}
	if bar.Close != 192.5 || bar.Open != 192.0 || bar.Transactions != 4521 {
		t.Errorf("bar fields not decoded: %+v", bar)
	}
}
