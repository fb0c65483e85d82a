package models

import (
	"encoding/json"
	"fmt"
)

// Direction of a conversion relative to the base currency.
type Direction int

const (
	// ToForeign converts a base currency amount into foreign currencies.
	ToForeign Direction = iota
	// ToBase converts a foreign currency amount into the base currency.
	ToBase
)

func (d Direction) String() string {
	switch d {
	case ToForeign:
		return "to_foreign"
	case ToBase:
		return "to_base"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// ParseDirection parses the wire name of a direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "to_foreign":
		return ToForeign, nil
	case "to_base":
		return ToBase, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Direction) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDirection(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ConversionRequest is a single conversion asked for by the user.
// For ToForeign an empty Currency means every foreign currency.
// For ToBase, Currency is the foreign currency the amount is given in.
type ConversionRequest struct {
	Amount    float64
	Direction Direction
	Currency  string
}

// Conversion is the result of a ConversionRequest.
type Conversion struct {
	BaseAmount float64
	Amounts    map[string]float64
}

// ConvertRequest represents the JSON body for a conversion
// swagger:model ConvertRequest
type ConvertRequest struct {
	// Amount to convert
	// required: true
	// example: 100.0
	Amount float64 `json:"amount"`

	// Conversion direction, to_foreign or to_base
	// example: to_foreign
	Direction Direction `json:"direction"`

	// Foreign currency; empty converts into every foreign currency
	// example: USD
	Currency string `json:"currency"`
}

// ConvertResponse represents a successful conversion
// swagger:model ConvertResponse
type ConvertResponse struct {
	// Conversion direction
	// example: to_foreign
	Direction Direction `json:"direction"`

	// Amount in base currency
	// example: 100.0
	BaseAmount float64 `json:"base_amount"`

	// Amounts per foreign currency
	// example: {"USD": 20.0}
	Amounts map[string]float64 `json:"amounts"`

	// Formatted amounts per currency, base currency included
	// example: {"BRL": "R$ 100,00", "USD": "$ 20,00"}
	Formatted map[string]string `json:"formatted"`
}

// ConvertErrorResponse represents an error response for a conversion
// swagger:model ConvertErrorResponse
type ConvertErrorResponse struct {
	// Error message
	// example: Por favor, digite um valor positivo.
	Error string `json:"error"`
}
