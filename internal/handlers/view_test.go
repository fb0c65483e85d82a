package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/gw-currency-converter/internal/models"
	"github.com/sbilibin2017/gw-currency-converter/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViewRouter(svc Viewer) http.Handler {
	r := chi.NewRouter()
	RegisterViewHandlers(r,
		NewGetViewHandler(svc),
		NewRefreshViewHandler(svc),
		NewViewInputHandler(svc),
		NewViewSubmitHandler(svc),
	)
	return r
}

func TestViewHandlers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	converted := models.View{
		Fields:     map[string]string{models.BRL: "100", models.USD: "20,00"},
		RateLabels: map[string]string{models.USD: "Cotação: R$ 5,00"},
	}

	tests := []struct {
		name      string
		method    string
		path      string
		body      string
		mockSetup func(m *MockViewer)
		wantCode  int
		wantError string
		wantView  *models.View
	}{
		{
			name:   "get view",
			method: http.MethodGet,
			path:   "/view",
			mockSetup: func(m *MockViewer) {
				m.EXPECT().View(gomock.Any()).Return(converted)
			},
			wantCode: http.StatusOK,
			wantView: &converted,
		},
		{
			name:   "refresh",
			method: http.MethodPost,
			path:   "/view/refresh",
			mockSetup: func(m *MockViewer) {
				m.EXPECT().Refresh(gomock.Any()).Return(converted, nil)
			},
			wantCode: http.StatusOK,
			wantView: &converted,
		},
		{
			name:   "refresh failure keeps view",
			method: http.MethodPost,
			path:   "/view/refresh",
			mockSetup: func(m *MockViewer) {
				failed := converted.Clone()
				failed.Error = services.MsgRatesLoadFailed
				m.EXPECT().Refresh(gomock.Any()).Return(failed, errors.New("upstream down"))
			},
			wantCode: http.StatusBadGateway,
			wantView: &models.View{
				Error:      services.MsgRatesLoadFailed,
				Fields:     converted.Fields,
				RateLabels: converted.RateLabels,
			},
		},
		{
			name:   "input accepted",
			method: http.MethodPost,
			path:   "/view/input",
			body:   `{"field": "BRL", "value": "100"}`,
			mockSetup: func(m *MockViewer) {
				gomock.InOrder(
					m.EXPECT().Input(models.BRL, "100").Return(nil),
					m.EXPECT().View(gomock.Any()).Return(converted),
				)
			},
			wantCode: http.StatusAccepted,
			wantView: &converted,
		},
		{
			name:   "input unknown field",
			method: http.MethodPost,
			path:   "/view/input",
			body:   `{"field": "GBP", "value": "1"}`,
			mockSetup: func(m *MockViewer) {
				m.EXPECT().Input("GBP", "1").Return(fmt.Errorf("%q: %w", "GBP", services.ErrUnknownField))
			},
			wantCode:  http.StatusBadRequest,
			wantError: "Unknown field",
		},
		{
			name:      "input invalid body",
			method:    http.MethodPost,
			path:      "/view/input",
			body:      `{`,
			mockSetup: func(m *MockViewer) {},
			wantCode:  http.StatusBadRequest,
			wantError: "Invalid request body",
		},
		{
			name:   "submit",
			method: http.MethodPost,
			path:   "/view/submit",
			body:   `{"field": "BRL", "value": "100"}`,
			mockSetup: func(m *MockViewer) {
				m.EXPECT().Submit(gomock.Any(), models.BRL, "100").Return(converted, nil)
			},
			wantCode: http.StatusOK,
			wantView: &converted,
		},
		{
			name:   "submit while stopping",
			method: http.MethodPost,
			path:   "/view/submit",
			body:   `{"field": "USD", "value": "1"}`,
			mockSetup: func(m *MockViewer) {
				m.EXPECT().Submit(gomock.Any(), models.USD, "1").Return(models.View{}, services.ErrViewStopped)
			},
			wantCode:  http.StatusServiceUnavailable,
			wantError: "Service is shutting down",
		},
		{
			name:   "submit unexpected error",
			method: http.MethodPost,
			path:   "/view/submit",
			body:   `{"field": "USD", "value": "1"}`,
			mockSetup: func(m *MockViewer) {
				m.EXPECT().Submit(gomock.Any(), models.USD, "1").Return(models.View{}, errors.New("boom"))
			},
			wantCode:  http.StatusInternalServerError,
			wantError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viewer := NewMockViewer(ctrl)
			tt.mockSetup(viewer)

			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			newViewRouter(viewer).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)

			if tt.wantError != "" {
				var resp models.ViewErrorResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tt.wantError, resp.Error)
				return
			}

			var got models.View
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
			assert.Equal(t, *tt.wantView, got)
		})
	}
}
