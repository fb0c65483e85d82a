package models

import "time"

// RateSnapshot is the latest set of rates fetched from the quote provider.
// A rate is the amount of base currency equal to one unit of the foreign currency.
type RateSnapshot struct {
	Rates     map[string]float64
	UpdatedAt time.Time
}

// Rate returns the stored rate for code, or 0 when it is unavailable.
func (s RateSnapshot) Rate(code string) float64 {
	return s.Rates[code]
}

// Available reports whether every foreign currency has a positive rate.
func (s RateSnapshot) Available() bool {
	for _, code := range ForeignCurrencies {
		if s.Rates[code] <= 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the snapshot.
func (s RateSnapshot) Clone() RateSnapshot {
	out := RateSnapshot{UpdatedAt: s.UpdatedAt}
	if s.Rates != nil {
		out.Rates = make(map[string]float64, len(s.Rates))
		for k, v := range s.Rates {
			out.Rates[k] = v
		}
	}
	return out
}

// RatesResponse represents a successful response with exchange rates
// swagger:model RatesResponse
type RatesResponse struct {
	// Rates in base currency per foreign unit
	// example: {"USD": 5.0, "EUR": 5.5, "BTC": 300000.0}
	Rates map[string]float64 `json:"rates"`

	// Formatted rate labels per currency
	// example: {"USD": "R$ 5,00"}
	Labels map[string]string `json:"labels"`

	// Whether every rate is present
	// example: true
	Available bool `json:"available"`

	// Time of the last successful fetch
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// RatesErrorResponse represents an error response when fetching exchange rates
// swagger:model RatesErrorResponse
type RatesErrorResponse struct {
	// Error message
	// example: Failed to retrieve exchange rates
	Error string `json:"error"`
}

// RatesUpdatedEvent is published after every successful refresh.
type RatesUpdatedEvent struct {
	EventID   string             `json:"event_id"`
	Source    string             `json:"source"`
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetched_at"`
}
