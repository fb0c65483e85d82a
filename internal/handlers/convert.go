package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/gw-currency-converter/internal/logger"
	"github.com/sbilibin2017/gw-currency-converter/internal/models"
	"github.com/sbilibin2017/gw-currency-converter/internal/services"
)

//go:generate mockgen -source=convert.go -destination=mock_convert.go -package=handlers

// Converter defines the interface that the conversion service must implement.
type Converter interface {
	Convert(ctx context.Context, req models.ConvertRequest) (models.ConvertResponse, error)
}

// NewConvertHandler returns an HTTP handler that converts an amount with the stored rates.
// @Summary Convert amount
// @Description Converts BRL into the foreign currencies (to_foreign) or a foreign amount into BRL (to_base)
// @Tags convert
// @Accept json
// @Produce json
// @Param request body models.ConvertRequest true "Convert Request"
// @Success 200 {object} models.ConvertResponse "Converted amounts"
// @Failure 400 {object} models.ConvertErrorResponse "Invalid amount or currency"
// @Failure 503 {object} models.ConvertErrorResponse "Rates unavailable"
// @Router /convert [post]
func NewConvertHandler(svc Converter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.ConvertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Log.Errorw("failed to decode convert request", "request_id", requestID(r), "error", err)
			writeJSON(w, http.StatusBadRequest, models.ConvertErrorResponse{Error: "Invalid request body"})
			return
		}

		resp, err := svc.Convert(r.Context(), req)
		if err != nil {
			status, msg := convertError(err)
			if status == http.StatusInternalServerError {
				logger.Log.Errorw("failed to convert", "request_id", requestID(r), "amount", req.Amount, "currency", req.Currency, "error", err)
			}
			writeJSON(w, status, models.ConvertErrorResponse{Error: msg})
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// RegisterConvertHandler registers the conversion route
func RegisterConvertHandler(r chi.Router, h http.HandlerFunc) {
	r.Post("/convert", h)
}

func convertError(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrNegativeAmount):
		return http.StatusBadRequest, services.MsgNegativeAmount
	case errors.Is(err, services.ErrAmountTooLarge):
		return http.StatusBadRequest, services.MsgAmountTooLarge
	case errors.Is(err, services.ErrInvalidAmount):
		return http.StatusBadRequest, services.MsgInvalidAmount
	case errors.Is(err, services.ErrUnknownCurrency):
		return http.StatusBadRequest, "Unsupported currency"
	case errors.Is(err, services.ErrRateUnavailable):
		return http.StatusServiceUnavailable, services.MsgRatesMissing
	}
	return http.StatusInternalServerError, "Internal server error"
}
