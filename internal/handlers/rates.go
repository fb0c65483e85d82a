package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/gw-currency-converter/internal/logger"
	"github.com/sbilibin2017/gw-currency-converter/internal/middlewares"
	"github.com/sbilibin2017/gw-currency-converter/internal/models"
)

//go:generate mockgen -source=rates.go -destination=mock_rates.go -package=handlers

// RatesReader defines the interface for reading the stored rates.
type RatesReader interface {
	Snapshot(ctx context.Context) models.RateSnapshot
}

// RatesRefresher defines the interface for refetching the rates.
type RatesRefresher interface {
	Refresh(ctx context.Context) (models.RateSnapshot, error)
}

// RateFormatter renders amounts in the base currency.
type RateFormatter interface {
	Base() string
	Format(value float64, code string) string
}

// NewGetRatesHandler returns an HTTP handler for the stored exchange rates.
// @Summary Get exchange rates
// @Description Returns the latest stored rates against BRL with formatted labels
// @Tags rates
// @Produce json
// @Success 200 {object} models.RatesResponse "Exchange rates"
// @Router /rates [get]
func NewGetRatesHandler(reader RatesReader, f RateFormatter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := reader.Snapshot(r.Context())
		writeJSON(w, http.StatusOK, newRatesResponse(snapshot, f))
	}
}

// NewRefreshRatesHandler returns an HTTP handler that refetches the rates from the provider.
// @Summary Refresh exchange rates
// @Description Fetches new rates from the provider; the stored rates are kept on failure
// @Tags rates
// @Produce json
// @Success 200 {object} models.RatesResponse "Exchange rates"
// @Failure 502 {object} models.RatesErrorResponse "Failed to refresh exchange rates"
// @Router /rates/refresh [post]
func NewRefreshRatesHandler(refresher RatesRefresher, f RateFormatter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := refresher.Refresh(r.Context())
		if err != nil {
			logger.Log.Errorw("failed to refresh rates", "request_id", requestID(r), "error", err)
			writeJSON(w, http.StatusBadGateway, models.RatesErrorResponse{Error: "Failed to refresh exchange rates"})
			return
		}
		writeJSON(w, http.StatusOK, newRatesResponse(snapshot, f))
	}
}

// RegisterRatesHandlers registers routes for reading and refreshing rates
func RegisterRatesHandlers(r chi.Router, get, refresh http.HandlerFunc) {
	r.Get("/rates", get)
	r.Post("/rates/refresh", refresh)
}

func newRatesResponse(snapshot models.RateSnapshot, f RateFormatter) models.RatesResponse {
	resp := models.RatesResponse{
		Rates:     make(map[string]float64, len(snapshot.Rates)),
		Labels:    make(map[string]string, len(snapshot.Rates)),
		Available: snapshot.Available(),
	}
	for code, rate := range snapshot.Rates {
		resp.Rates[code] = rate
		resp.Labels[code] = f.Format(rate, f.Base())
	}
	if !snapshot.UpdatedAt.IsZero() {
		updated := snapshot.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestID returns the ID set by the logging middleware, or "" outside it.
func requestID(r *http.Request) string {
	id, _ := middlewares.RequestIDFromContext(r.Context())
	return id
}
