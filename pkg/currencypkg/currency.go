// Package currencypkg provides common currency related functionality for apps.
package currencypkg

import "github.com/go-playground/validator/v10"

// Constants for all supported currencies.
const (
	USD = "USD"
	EUR = "EUR"
	GBP = "GBP"
	RMB = "RMB"
	JPY = "JPY"
)

// SupportedCurrencies holds all the supported currencies.
var SupportedCurrencies = []string{
	USD,
	EUR,
	GBP,
	RMB,
	JPY,
}

// exponents maps a currency to the number of decimal places of its minor unit.
var exponents = map[string]int32{
	USD: 2,
	EUR: 2,
	GBP: 2,
	RMB: 2,
	JPY: 0,
}

// IsSupportedCurrency returns true if the currency is supported.
func IsSupportedCurrency(currency string) bool {
	_, ok := exponents[currency]
	return ok
}

// Exponent returns the number of decimal places for the given currency.
// Unknown currencies fall back to 2 decimal places.
func Exponent(currency string) int32 {
	exp, ok := exponents[currency]
	if !ok {
		return 2
	}

	return exp
}

// ValidCurrency validates whether the currency is supported.
var ValidCurrency validator.Func = func(fl validator.FieldLevel) bool {
	if c, ok := fl.Field().Interface().(string); ok {
		return IsSupportedCurrency(c)
	}

	return false
}
