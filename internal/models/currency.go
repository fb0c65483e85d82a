package models

// Supported currency codes.
const (
	BRL = "BRL"
	USD = "USD"
	EUR = "EUR"
	BTC = "BTC"
)

// BaseCurrency is the currency user input is denominated in.
const BaseCurrency = BRL

// ForeignCurrencies lists the currencies priced against the base currency,
// in display order.
var ForeignCurrencies = []string{USD, EUR, BTC}

// CurrencySpec describes how amounts of a currency are displayed.
type CurrencySpec struct {
	Code       string
	Name       string
	Symbol     string
	Decimals   int
	DecimalSep string
	GroupSep   string
}

// DefaultCurrencySpecs returns the pt-BR display configuration for every
// supported currency.
func DefaultCurrencySpecs() map[string]CurrencySpec {
	return map[string]CurrencySpec{
		BRL: {Code: BRL, Name: "Real", Symbol: "R$", Decimals: 2, DecimalSep: ",", GroupSep: "."},
		USD: {Code: USD, Name: "Dólar", Symbol: "$", Decimals: 2, DecimalSep: ",", GroupSep: "."},
		EUR: {Code: EUR, Name: "Euro", Symbol: "€", Decimals: 2, DecimalSep: ",", GroupSep: "."},
		BTC: {Code: BTC, Name: "BTC", Symbol: "₿", Decimals: 8, DecimalSep: ",", GroupSep: "."},
	}
}

// FallbackCurrencySpec is used for codes without a configured spec.
func FallbackCurrencySpec(code string) CurrencySpec {
	return CurrencySpec{Code: code, Decimals: 2, DecimalSep: ",", GroupSep: "."}
}
