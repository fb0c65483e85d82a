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

//go:generate mockgen -source=view.go -destination=mock_view.go -package=handlers

// Viewer defines the interface of the widget view service.
type Viewer interface {
	View(ctx context.Context) models.View
	Refresh(ctx context.Context) (models.View, error)
	Input(field, raw string) error
	Submit(ctx context.Context, field, raw string) (models.View, error)
}

// NewGetViewHandler returns an HTTP handler for the widget state.
// @Summary Get widget view
// @Description Returns field values, rate labels, summary and error banner of the converter widget
// @Tags view
// @Produce json
// @Success 200 {object} models.View "Widget view"
// @Router /view [get]
func NewGetViewHandler(svc Viewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.View(r.Context()))
	}
}

// NewRefreshViewHandler returns an HTTP handler that reloads the widget rates.
// The view is returned on failure as well, with the error banner set.
// @Summary Refresh widget rates
// @Tags view
// @Produce json
// @Success 200 {object} models.View "Widget view"
// @Failure 502 {object} models.View "Widget view with error banner"
// @Router /view/refresh [post]
func NewRefreshViewHandler(svc Viewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.Refresh(r.Context())
		if err != nil {
			writeJSON(w, http.StatusBadGateway, view)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// NewViewInputHandler returns an HTTP handler for a field edit. The conversion
// runs once edits stop arriving for the debounce window.
// @Summary Edit widget field
// @Tags view
// @Accept json
// @Produce json
// @Param request body models.ViewInputRequest true "Field edit"
// @Success 202 {object} models.View "Widget view before the conversion runs"
// @Failure 400 {object} models.ViewErrorResponse "Invalid request"
// @Failure 503 {object} models.ViewErrorResponse "Service stopping"
// @Router /view/input [post]
func NewViewInputHandler(svc Viewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeViewInput(w, r)
		if !ok {
			return
		}

		if err := svc.Input(req.Field, req.Value); err != nil {
			writeViewError(w, r, err)
			return
		}
		writeJSON(w, http.StatusAccepted, svc.View(r.Context()))
	}
}

// NewViewSubmitHandler returns an HTTP handler that converts a field edit immediately.
// @Summary Submit widget field
// @Tags view
// @Accept json
// @Produce json
// @Param request body models.ViewInputRequest true "Field edit"
// @Success 200 {object} models.View "Widget view"
// @Failure 400 {object} models.ViewErrorResponse "Invalid request"
// @Failure 503 {object} models.ViewErrorResponse "Service stopping"
// @Router /view/submit [post]
func NewViewSubmitHandler(svc Viewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeViewInput(w, r)
		if !ok {
			return
		}

		view, err := svc.Submit(r.Context(), req.Field, req.Value)
		if err != nil {
			writeViewError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// RegisterViewHandlers registers the widget routes
func RegisterViewHandlers(r chi.Router, get, refresh, input, submit http.HandlerFunc) {
	r.Get("/view", get)
	r.Post("/view/refresh", refresh)
	r.Post("/view/input", input)
	r.Post("/view/submit", submit)
}

func decodeViewInput(w http.ResponseWriter, r *http.Request) (models.ViewInputRequest, bool) {
	var req models.ViewInputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Errorw("failed to decode view input", "request_id", requestID(r), "error", err)
		writeJSON(w, http.StatusBadRequest, models.ViewErrorResponse{Error: "Invalid request body"})
		return req, false
	}
	return req, true
}

func writeViewError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrUnknownField):
		writeJSON(w, http.StatusBadRequest, models.ViewErrorResponse{Error: "Unknown field"})
	case errors.Is(err, services.ErrViewStopped):
		writeJSON(w, http.StatusServiceUnavailable, models.ViewErrorResponse{Error: "Service is shutting down"})
	default:
		logger.Log.Errorw("view request failed", "request_id", requestID(r), "error", err)
		writeJSON(w, http.StatusInternalServerError, models.ViewErrorResponse{Error: "Internal server error"})
	}
}
