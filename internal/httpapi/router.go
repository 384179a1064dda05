package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the HTTP surface: ticker CRUD, aggregation range
// queries and CSV export.
func NewRouter(h *Handler, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Route("/tickers", func(r chi.Router) {
		r.Get("/", h.ListTickers)
		r.Post("/", h.CreateTicker)
		r.Get("/{id}", h.GetTicker)
		r.Put("/{id}", h.UpdateTicker)
		r.Delete("/{id}", h.DeleteTicker)
		r.Get("/symbol/{symbol}", h.GetTickerBySymbol)
	})

	r.Get("/{symbol}/aggregations/{start}/{end}", h.ListAggregations)
	r.Get("/{symbol}/aggregations/{start}/{end}/export", h.ExportAggregations)

	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}
