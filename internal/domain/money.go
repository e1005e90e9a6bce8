package domain

import (
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/bankops/backoffice/pkg/currencypkg"
)

var (
	// ErrInvalidAmount indicates a malformed, non-positive or unrepresentable amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrCurrencyMismatch indicates an operation across accounts with different currencies.
	ErrCurrencyMismatch = errors.New("accounts currency mismatch")
	// ErrInsufficientFunds indicates that the account does not have sufficient balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Money is a fixed-precision amount in a single currency.
//
// All balance arithmetic in the service goes through Money so that raw
// floating point math never touches a balance.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney returns Money for the given amount and currency.
//
// The amount must be non-negative and exactly representable at the
// currency's minor unit precision.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, ErrInvalidAmount
	}

	exp := currencypkg.Exponent(currency)
	if !amount.Equal(amount.Truncate(exp)) {
		return Money{}, ErrInvalidAmount
	}

	return Money{amount: amount, currency: currency}, nil
}

// ParseMoney parses the string representation of an amount in the given currency.
func ParseMoney(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}

	return NewMoney(d, currency)
}

// ZeroMoney returns the zero amount in the given currency.
func ZeroMoney(currency string) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code.
func (m Money) Currency() string {
	return m.currency
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// Add returns the sum of two amounts in the same currency.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}

	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Subtract returns the difference of two amounts in the same currency.
//
// A difference below zero fails with ErrInsufficientFunds; Money never
// represents a negative balance.
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}

	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		return Money{}, ErrInsufficientFunds
	}

	return Money{amount: result, currency: m.currency}, nil
}

// Cmp compares two amounts in the same currency.
// It returns -1, 0 or 1 the same way decimal.Decimal.Cmp does.
func (m Money) Cmp(other Money) (int, error) {
	if m.currency != other.currency {
		return 0, ErrCurrencyMismatch
	}

	return m.amount.Cmp(other.amount), nil
}

// Equal reports whether two Money values have the same currency and amount.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String renders the amount at the currency's minor unit precision.
func (m Money) String() string {
	return m.amount.StringFixed(currencypkg.Exponent(m.currency))
}

// moneyJSON is the wire representation of Money.
type moneyJSON struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.String(), Currency: m.currency})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed, err := ParseMoney(raw.Amount, raw.Currency)
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}
