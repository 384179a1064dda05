package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quantpulse/polygon-data/internal/model"
	"github.com/quantpulse/polygon-data/internal/store"
)

// TickerService is the CRUD surface over reference entities.
type TickerService interface {
	Create(ctx context.Context, t model.Ticker) (model.Ticker, error)
	GetByID(ctx context.Context, id int64) (model.Ticker, error)
	GetBySymbol(ctx context.Context, symbol string) (model.Ticker, error)
	List(ctx context.Context, limit, offset int) ([]model.Ticker, error)
	Update(ctx context.Context, id int64, t model.Ticker) (model.Ticker, error)
	Delete(ctx context.Context, id int64) error
}

// AggregationService reads stored buckets by timestamp range.
type AggregationService interface {
	ListRange(ctx context.Context, tickerID, fromTS, toTS int64) ([]model.Aggregation, error)
}

// ExportService writes a CSV artifact and returns its file name.
type ExportService interface {
	Export(ctx context.Context, symbol string, from, to time.Time) (string, error)
}

// Handler carries the services behind the HTTP surface.
type Handler struct {
	tickers     TickerService
	aggs        AggregationService
	exporter    ExportService
	artifactDir string
	logger      *slog.Logger
}

// NewHandler wires the HTTP handlers to their services. artifactDir must
// match the exporter's output directory so export responses can stream
// the file just written.
func NewHandler(tickers TickerService, aggs AggregationService, exporter ExportService,
	artifactDir string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		tickers:     tickers,
		aggs:        aggs,
		exporter:    exporter,
		artifactDir: artifactDir,
		logger:      logger,
	}
}

type tickerJSON struct {
	ID             int64  `json:"id"`
	Symbol         string `json:"symbol"`
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

func toTickerJSON(t model.Ticker) tickerJSON {
	return tickerJSON{
		ID:             t.ID,
		Symbol:         t.Symbol,
		Name:           t.Name,
		Market:         t.Market,
		Locale:         t.Locale,
		Type:           t.Type,
		Active:         t.Active,
		CurrencyName:   t.CurrencyName,
		CompositeFIGI:  t.CompositeFIGI,
		ShareClassFIGI: t.ShareClassFIGI,
		LastUpdatedUTC: t.LastUpdatedUTC,
	}
}

func (j tickerJSON) toModel() model.Ticker {
	return model.Ticker{
		ID:             j.ID,
		Symbol:         j.Symbol,
		Name:           j.Name,
		Market:         j.Market,
		Locale:         j.Locale,
		Type:           j.Type,
		Active:         j.Active,
		CurrencyName:   j.CurrencyName,
		CompositeFIGI:  j.CompositeFIGI,
		ShareClassFIGI: j.ShareClassFIGI,
		LastUpdatedUTC: j.LastUpdatedUTC,
	}
}

type aggregationJSON struct {
	ID           int64   `json:"id"`
	TickerID     int64   `json:"ticker_id"`
	OpenPrice    float64 `json:"open_price"`
	ClosePrice   float64 `json:"close_price"`
	HighestPrice float64 `json:"highest_price"`
	LowestPrice  float64 `json:"lowest_price"`
	Volume       float64 `json:"trading_volume"`
	VWAP         float64 `json:"volume_weighted_average_price"`
	Transactions int64   `json:"number_of_transactions"`
	Timestamp    int64   `json:"timestamp"`
}

func toAggregationJSON(a model.Aggregation) aggregationJSON {
	return aggregationJSON{
		ID:           a.ID,
		TickerID:     a.TickerID,
		OpenPrice:    a.OpenPrice,
		ClosePrice:   a.ClosePrice,
		HighestPrice: a.HighestPrice,
		LowestPrice:  a.LowestPrice,
		Volume:       a.Volume,
		VWAP:         a.VWAP,
		Transactions: a.Transactions,
		Timestamp:    a.Timestamp,
	}
}

type errorJSON struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorJSON{Detail: detail})
}

// writeServiceError maps domain errors to status codes: unknown identity
// is 404, malformed input and uniqueness collisions are 422, everything
// else is 500.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var badDate *model.ErrBadDate
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusUnprocessableEntity, "already exists")
	case errors.As(err, &badDate):
		writeError(w, http.StatusUnprocessableEntity, badDate.Error())
	default:
		h.logger.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// ListTickers handles GET /tickers with optional limit and offset.
func (h *Handler) ListTickers(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", -1)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	tickers, err := h.tickers.List(r.Context(), limit, offset)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	out := make([]tickerJSON, 0, len(tickers))
	for _, t := range tickers {
		out = append(out, toTickerJSON(t))
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateTicker handles POST /tickers.
func (h *Handler) CreateTicker(w http.ResponseWriter, r *http.Request) {
	var in tickerJSON
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "malformed body: "+err.Error())
		return
	}
	if in.Symbol == "" {
		writeError(w, http.StatusUnprocessableEntity, "symbol is required")
		return
	}

	created, err := h.tickers.Create(r.Context(), in.toModel())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTickerJSON(created))
}

// GetTicker handles GET /tickers/{id}.
func (h *Handler) GetTicker(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	t, err := h.tickers.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTickerJSON(t))
}

// GetTickerBySymbol handles GET /tickers/symbol/{symbol}.
func (h *Handler) GetTickerBySymbol(w http.ResponseWriter, r *http.Request) {
	t, err := h.tickers.GetBySymbol(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTickerJSON(t))
}

// UpdateTicker handles PUT /tickers/{id}.
func (h *Handler) UpdateTicker(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	var in tickerJSON
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "malformed body: "+err.Error())
		return
	}
	if in.Symbol == "" {
		writeError(w, http.StatusUnprocessableEntity, "symbol is required")
		return
	}

	updated, err := h.tickers.Update(r.Context(), id, in.toModel())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTickerJSON(updated))
}

// DeleteTicker handles DELETE /tickers/{id}. Stored aggregations go with
// the ticker.
func (h *Handler) DeleteTicker(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := h.tickers.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAggregations handles GET /{symbol}/aggregations/{start}/{end} with
// inclusive date bounds.
func (h *Handler) ListAggregations(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	from, to, err := pathDates(r)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	t, err := h.tickers.GetBySymbol(r.Context(), symbol)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	fromTS := from.Unix()
	toTS := to.AddDate(0, 0, 1).Add(-time.Second).Unix()
	aggs, err := h.aggs.ListRange(r.Context(), t.ID, fromTS, toTS)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	out := make([]aggregationJSON, 0, len(aggs))
	for _, a := range aggs {
		out = append(out, toAggregationJSON(a))
	}
	writeJSON(w, http.StatusOK, out)
}

// ExportAggregations handles GET /{symbol}/aggregations/{start}/{end}/export:
// it writes the CSV artifact, announces it on the bus, and streams it back.
func (h *Handler) ExportAggregations(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	from, to, err := pathDates(r)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	name, err := h.exporter.Export(r.Context(), symbol, from, to)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, r, filepath.Join(h.artifactDir, name))
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func pathDates(r *http.Request) (from, to time.Time, err error) {
	from, err = model.ParseDate(chi.URLParam(r, "start"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err = model.ParseDate(chi.URLParam(r, "end"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}
