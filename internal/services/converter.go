package services

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sbilibin2017/gw-currency-converter/internal/models"
	"github.com/shopspring/decimal"
)

// Placeholder is rendered by Format for zero or invalid values.
const Placeholder = "--"

var (
	// ErrRateUnavailable is returned when a conversion needs a rate that was never fetched.
	ErrRateUnavailable = errors.New("rate unavailable")
	// ErrEmptyAmount is returned by ParseAmount for blank input.
	ErrEmptyAmount = errors.New("empty amount")
	// ErrInvalidAmount is returned for non-numeric or non-finite amounts.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNegativeAmount is returned for amounts below zero.
	ErrNegativeAmount = errors.New("negative amount")
	// ErrAmountTooLarge is returned for amounts above the configured maximum.
	ErrAmountTooLarge = errors.New("amount too large")
	// ErrUnknownCurrency is returned for a currency the engine does not convert.
	ErrUnknownCurrency = errors.New("unknown currency")
)

// ToForeign converts a base currency amount into a foreign currency.
// Non-positive or non-finite input yields 0.
func ToForeign(amount, rate float64) float64 {
	if !positive(amount) || !positive(rate) {
		return 0
	}
	return amount / rate
}

// ToBase converts a foreign currency amount into the base currency.
// Non-positive or non-finite input yields 0.
func ToBase(amount, rate float64) float64 {
	if !positive(amount) || !positive(rate) {
		return 0
	}
	return amount * rate
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// ValidateAmount rejects amounts the engine must never see.
// A maxAmount of zero disables the upper bound.
func ValidateAmount(amount, maxAmount float64) error {
	switch {
	case math.IsNaN(amount) || math.IsInf(amount, 0):
		return ErrInvalidAmount
	case amount < 0:
		return ErrNegativeAmount
	case maxAmount > 0 && amount > maxAmount:
		return ErrAmountTooLarge
	}
	return nil
}

// ConversionEngine converts and formats amounts between the base currency
// and the foreign currencies. It holds configuration only.
type ConversionEngine struct {
	base    string
	foreign []string
	specs   map[string]models.CurrencySpec
}

// NewConversionEngine creates an engine for base and the given foreign currencies.
func NewConversionEngine(base string, foreign []string, specs map[string]models.CurrencySpec) *ConversionEngine {
	codes := make([]string, len(foreign))
	copy(codes, foreign)
	cfg := make(map[string]models.CurrencySpec, len(specs))
	for k, v := range specs {
		cfg[k] = v
	}
	return &ConversionEngine{
		base:    base,
		foreign: codes,
		specs:   cfg,
	}
}

// Base returns the base currency code.
func (e *ConversionEngine) Base() string {
	return e.base
}

// Foreign returns the foreign currency codes in display order.
func (e *ConversionEngine) Foreign() []string {
	out := make([]string, len(e.foreign))
	copy(out, e.foreign)
	return out
}

// Spec returns the display configuration for code.
func (e *ConversionEngine) Spec(code string) models.CurrencySpec {
	if spec, ok := e.specs[code]; ok {
		return spec
	}
	return models.FallbackCurrencySpec(code)
}

// IsForeign reports whether code is one of the engine's foreign currencies.
func (e *ConversionEngine) IsForeign(code string) bool {
	for _, c := range e.foreign {
		if c == code {
			return true
		}
	}
	return false
}

// Convert applies req against rates.
func (e *ConversionEngine) Convert(req models.ConversionRequest, rates map[string]float64) (models.Conversion, error) {
	result := models.Conversion{Amounts: make(map[string]float64, len(e.foreign))}

	switch req.Direction {
	case models.ToForeign:
		targets := e.foreign
		if req.Currency != "" {
			if !e.IsForeign(req.Currency) {
				return models.Conversion{}, fmt.Errorf("%q: %w", req.Currency, ErrUnknownCurrency)
			}
			targets = []string{req.Currency}
		}
		for _, code := range targets {
			if !positive(rates[code]) {
				return models.Conversion{}, fmt.Errorf("%s: %w", code, ErrRateUnavailable)
			}
		}
		result.BaseAmount = req.Amount
		for _, code := range targets {
			result.Amounts[code] = ToForeign(req.Amount, rates[code])
		}

	case models.ToBase:
		if !e.IsForeign(req.Currency) {
			return models.Conversion{}, fmt.Errorf("%q: %w", req.Currency, ErrUnknownCurrency)
		}
		for _, code := range e.foreign {
			if !positive(rates[code]) {
				return models.Conversion{}, fmt.Errorf("%s: %w", code, ErrRateUnavailable)
			}
		}
		result.BaseAmount = ToBase(req.Amount, rates[req.Currency])
		result.Amounts[req.Currency] = req.Amount
		for _, code := range e.foreign {
			if code == req.Currency {
				continue
			}
			result.Amounts[code] = ToForeign(result.BaseAmount, rates[code])
		}

	default:
		return models.Conversion{}, fmt.Errorf("unknown direction %v", req.Direction)
	}

	return result, nil
}

// Format renders value with the currency symbol, or Placeholder when value
// is zero or not finite.
func (e *ConversionEngine) Format(value float64, code string) string {
	if value == 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return Placeholder
	}
	spec := e.Spec(code)
	number := formatNumber(value, spec)
	if spec.Symbol == "" {
		return number
	}
	return spec.Symbol + " " + number
}

// FormatAmount renders value the way it is written into a form field:
// no symbol, and an empty string when value is zero or not finite.
func (e *ConversionEngine) FormatAmount(value float64, code string) string {
	if value == 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return ""
	}
	return formatNumber(value, e.Spec(code))
}

// ParseAmount parses user input written in pt-BR notation, e.g. "1.234,56".
// Grouping separators are dropped and the first decimal comma becomes the
// decimal point.
func (e *ConversionEngine) ParseAmount(raw string) (float64, error) {
	spec := e.Spec(e.base)
	s := strings.TrimSpace(raw)
	if spec.Symbol != "" {
		s = strings.TrimSpace(strings.TrimPrefix(s, spec.Symbol))
	}
	if s == "" {
		return 0, ErrEmptyAmount
	}
	if spec.GroupSep != "" {
		s = strings.ReplaceAll(s, spec.GroupSep, "")
	}
	if spec.DecimalSep != "" && spec.DecimalSep != "." {
		s = strings.Replace(s, spec.DecimalSep, ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q: %w", raw, ErrInvalidAmount)
	}
	return v, nil
}

// formatNumber rounds half away from zero to spec.Decimals places and
// applies the grouping and decimal separators.
func formatNumber(value float64, spec models.CurrencySpec) string {
	fixed := decimal.NewFromFloat(value).StringFixed(int32(spec.Decimals))

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, fracPart := fixed, ""
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		intPart, fracPart = fixed[:i], fixed[i+1:]
	}

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(spec.GroupSep)
		}
		b.WriteRune(r)
	}
	if fracPart != "" {
		b.WriteString(spec.DecimalSep)
		b.WriteString(fracPart)
	}
	return b.String()
}
