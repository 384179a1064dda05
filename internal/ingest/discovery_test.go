package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/quantpulse/polygon-data/internal/api"
	"github.com/quantpulse/polygon-data/internal/model"
	"github.com/quantpulse/polygon-data/internal/state"
	"github.com/quantpulse/polygon-data/internal/store"
)

// fakeTickerSink classifies repeated symbols as conflicts, mirroring the
// unique-constraint behavior of the real store.
type fakeTickerSink struct {
	upserts  []string
	outcomes []store.Outcome
	seen     map[string]bool
	failOn   map[string]error
}

func newFakeTickerSink() *fakeTickerSink {
	return &fakeTickerSink{seen: make(map[string]bool)}
}

func (f *fakeTickerSink) Upsert(_ context.Context, t model.Ticker) store.Outcome {
	f.upserts = append(f.upserts, t.Symbol)
	var o store.Outcome
	switch {
	case f.failOn[t.Symbol] != nil:
		o = store.Outcome{Status: store.StatusError, Err: f.failOn[t.Symbol]}
	case f.seen[t.Symbol]:
		o = store.Outcome{Status: store.StatusConflict}
	default:
		f.seen[t.Symbol] = true
		o = store.Outcome{Status: store.StatusSuccess}
	}
	f.outcomes = append(f.outcomes, o)
	return o
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(new(strings.Builder), nil))
}

func TestDiscoveryWalksPagesAndRediscovers(t *testing.T) {
	var baseURL string
	var requests []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.String())
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("cursor") {
		case "":
			fmt.Fprintf(w, `{
				"results": [{"ticker": "AAA", "active": true}, {"ticker": "BBB", "active": true}],
				"count": 2,
				"next_url": "%s/v3/reference/tickers?cursor=p2&limit=2"
			}`, baseURL)
		case "p2":
			fmt.Fprint(w, `{
				"results": [{"ticker": "CCC", "active": true}],
				"count": 1
			}`)
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("cursor"))
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()
	baseURL = srv.URL

	st := state.NewMemoryStore()
	now := date(t, "2025-01-01")
	st.SetClock(func() time.Time { return now })

	sink := newFakeTickerSink()
	client := api.NewClient(srv.URL, "test-key", api.WithLogger(testLogger()))
	d := NewDiscovery(client, st, sink, 2, 10*time.Hour, testLogger())
	ctx := context.Background()

	// Cycle 1: full page, cursor advances, not exhausted.
	if err := d.RunCycle(ctx); err != nil {
		t.Fatalf("cycle 1: %v", err)
	}
	if got := strings.Join(sink.upserts, ","); got != "AAA,BBB" {
		t.Errorf("upserts after cycle 1 = %s, want AAA,BBB", got)
	}
	cursor, ok, _ := st.Get(ctx, state.KeyNextTickersURL)
	if !ok || !strings.Contains(cursor, "cursor=p2") {
		t.Errorf("cursor after cycle 1 = %q, want next_url with cursor=p2", cursor)
	}
	if _, exhausted, _ := st.Get(ctx, state.KeyLastTickersURL); exhausted {
		t.Error("exhausted flag set after a full page")
	}

	// Cycle 2: short page marks discovery exhausted.
	if err := d.RunCycle(ctx); err != nil {
		t.Fatalf("cycle 2: %v", err)
	}
	if got := strings.Join(sink.upserts, ","); got != "AAA,BBB,CCC" {
		t.Errorf("upserts after cycle 2 = %s, want AAA,BBB,CCC", got)
	}
	if _, exhausted, _ := st.Get(ctx, state.KeyLastTickersURL); !exhausted {
		t.Error("exhausted flag not set after the short page")
	}

	// Cycle 3: exhausted, no fetch happens.
	if err := d.RunCycle(ctx); err != nil {
		t.Fatalf("cycle 3: %v", err)
	}
	if len(requests) != 2 {
		t.Errorf("requests after exhausted cycle = %d, want 2", len(requests))
	}

	// After the rediscovery window the flag has expired and the walk
	// restarts from the first page.
	now = now.Add(11 * time.Hour)
	if err := d.RunCycle(ctx); err != nil {
		t.Fatalf("cycle 4: %v", err)
	}
	if len(requests) != 3 {
		t.Fatalf("requests after rediscovery = %d, want 3", len(requests))
	}
	if strings.Contains(requests[2], "cursor=") {
		t.Errorf("rediscovery request = %s, want first page", requests[2])
	}
}

func TestDiscoveryTransportErrorKeepsCursor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	st := state.NewMemoryStore()
	ctx := context.Background()
	savedCursor := srv.URL + "/v3/reference/tickers?cursor=keep&limit=5"
	if err := st.Set(ctx, state.KeyNextTickersURL, savedCursor); err != nil {
		t.Fatal(err)
	}

	sink := newFakeTickerSink()
	client := api.NewClient(srv.URL, "test-key",
		api.WithRetries(0, time.Millisecond),
		api.WithLogger(testLogger()),
	)
	d := NewDiscovery(client, st, sink, 5, time.Hour, testLogger())

	if err := d.RunCycle(ctx); err == nil {
		t.Fatal("RunCycle succeeded against a failing upstream")
	}
	if len(sink.upserts) != 0 {
		t.Errorf("rows upserted despite transport failure: %v", sink.upserts)
	}
	cursor, _, _ := st.Get(ctx, state.KeyNextTickersURL)
	if cursor != savedCursor {
		t.Errorf("cursor = %q, want unchanged %q", cursor, savedCursor)
	}
}

func TestDiscoveryRepeatedPageClassifiesConflicts(t *testing.T) {
	var baseURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// The same full page forever, pointing back at itself.
		fmt.Fprintf(w, `{
			"results": [{"ticker": "AAA", "active": true}],
			"count": 1,
			"next_url": "%s/v3/reference/tickers?limit=1"
		}`, baseURL)
	}))
	defer srv.Close()
	baseURL = srv.URL

	st := state.NewMemoryStore()
	sink := newFakeTickerSink()
	client := api.NewClient(srv.URL, "test-key", api.WithLogger(testLogger()))
	d := NewDiscovery(client, st, sink, 1, time.Hour, testLogger())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := d.RunCycle(ctx); err != nil {
			t.Fatalf("cycle %d: %v", i+1, err)
		}
	}

	if len(sink.outcomes) != 2 {
		t.Fatalf("outcomes = %d, want 2", len(sink.outcomes))
	}
	if sink.outcomes[0].Status != store.StatusSuccess {
		t.Errorf("first upsert = %s, want success", sink.outcomes[0].Status)
	}
	if sink.outcomes[1].Status != store.StatusConflict {
		t.Errorf("second upsert = %s, want conflict", sink.outcomes[1].Status)
	}
}

func TestDiscoveryRowFailureDoesNotAbortPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{
			"results": [{"ticker": "AAA"}, {"ticker": "BAD"}, {"ticker": "CCC"}],
			"count": 3
		}`)
	}))
	defer srv.Close()

	st := state.NewMemoryStore()
	sink := newFakeTickerSink()
	sink.failOn = map[string]error{"BAD": errors.New("connection reset")}

	client := api.NewClient(srv.URL, "test-key", api.WithLogger(testLogger()))
	d := NewDiscovery(client, st, sink, 5, time.Hour, testLogger())

	if err := d.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if got := strings.Join(sink.upserts, ","); got != "AAA,BAD,CCC" {
		t.Errorf("upserts = %s, want all three attempted", got)
	}
}
