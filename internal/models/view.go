package models

import "time"

// View is the state of the converter widget as shown to the user.
// swagger:model View
type View struct {
	// Loading indicator shown while rates are fetched
	Loading bool `json:"loading"`

	// Error banner; empty when hidden
	// example: Por favor, digite um valor positivo.
	Error string `json:"error,omitempty"`

	// Field values keyed by currency code
	// example: {"BRL": "100", "USD": "20,00", "EUR": "18,18", "BTC": "0,00033333"}
	Fields map[string]string `json:"fields"`

	// Base currency result shown after a reverse conversion
	// example: R$ 500,00
	BaseResult string `json:"base_result,omitempty"`

	// Whether the base currency result is visible
	BaseResultVisible bool `json:"base_result_visible"`

	// Whether an edit is waiting for the debounce window
	Pending bool `json:"pending"`

	// Rate labels keyed by foreign currency code
	// example: {"USD": "Cotação: R$ 5,00"}
	RateLabels map[string]string `json:"rate_labels"`

	// Summary line with the last update time and every rate
	Summary string `json:"summary,omitempty"`

	// Time of the last successful refresh
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Clone returns a deep copy of the view.
func (v View) Clone() View {
	out := v
	out.Fields = cloneStrings(v.Fields)
	out.RateLabels = cloneStrings(v.RateLabels)
	if v.UpdatedAt != nil {
		t := *v.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

func cloneStrings(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ViewInputRequest represents a field edit sent by the widget
// swagger:model ViewInputRequest
type ViewInputRequest struct {
	// Edited field: BRL for the base input or a foreign currency code
	// required: true
	// example: BRL
	Field string `json:"field"`

	// Raw field text in pt-BR notation
	// example: 1.234,56
	Value string `json:"value"`
}

// ViewErrorResponse represents an error response from the widget endpoints
// swagger:model ViewErrorResponse
type ViewErrorResponse struct {
	// Error message
	// example: unknown field
	Error string `json:"error"`
}
