package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, amount, currency string) Money {
	t.Helper()

	m, err := ParseMoney(amount, currency)
	require.NoError(t, err)

	return m
}

func TestParseMoney(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		amount   string
		currency string
		wantErr  error
	}{
		{name: "OK", amount: "10.50", currency: "USD"},
		{name: "Zero", amount: "0", currency: "USD"},
		{name: "WholeUnitsOnly", amount: "1500", currency: "JPY"},
		{name: "Negative", amount: "-1", currency: "USD", wantErr: ErrInvalidAmount},
		{name: "Malformed", amount: "ten", currency: "USD", wantErr: ErrInvalidAmount},
		{name: "TooPreciseUSD", amount: "1.005", currency: "USD", wantErr: ErrInvalidAmount},
		{name: "TooPreciseJPY", amount: "100.5", currency: "JPY", wantErr: ErrInvalidAmount},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			m, err := ParseMoney(tc.amount, tc.currency)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.currency, m.Currency())
		})
	}
}

func TestMoneyAdd(t *testing.T) {
	t.Parallel()

	t.Run("SameCurrency", func(t *testing.T) {
		t.Parallel()

		sum, err := mustMoney(t, "10.50", "USD").Add(mustMoney(t, "0.25", "USD"))
		require.NoError(t, err)
		require.Equal(t, "10.75", sum.String())
	})

	t.Run("CurrencyMismatch", func(t *testing.T) {
		t.Parallel()

		_, err := mustMoney(t, "10.50", "USD").Add(mustMoney(t, "0.25", "EUR"))
		require.ErrorIs(t, err, ErrCurrencyMismatch)
	})
}

func TestMoneySubtract(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		minuend Money
		amount  Money
		want    string
		wantErr error
	}{
		{
			name:    "OK",
			minuend: Money{amount: decimal.RequireFromString("10.50"), currency: "USD"},
			amount:  Money{amount: decimal.RequireFromString("10.25"), currency: "USD"},
			want:    "0.25",
		},
		{
			name:    "ToZero",
			minuend: Money{amount: decimal.RequireFromString("10.50"), currency: "USD"},
			amount:  Money{amount: decimal.RequireFromString("10.50"), currency: "USD"},
			want:    "0.00",
		},
		{
			name:    "NegativeResult",
			minuend: Money{amount: decimal.RequireFromString("10.50"), currency: "USD"},
			amount:  Money{amount: decimal.RequireFromString("10.51"), currency: "USD"},
			wantErr: ErrInsufficientFunds,
		},
		{
			name:    "CurrencyMismatch",
			minuend: Money{amount: decimal.RequireFromString("10.50"), currency: "USD"},
			amount:  Money{amount: decimal.RequireFromString("1"), currency: "EUR"},
			wantErr: ErrCurrencyMismatch,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := tc.minuend.Subtract(tc.amount)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.want, got.String())
		})
	}
}

func TestMoneyCmp(t *testing.T) {
	t.Parallel()

	ten := mustMoney(t, "10", "USD")
	twenty := mustMoney(t, "20", "USD")

	got, err := ten.Cmp(twenty)
	require.NoError(t, err)
	require.Equal(t, -1, got)

	got, err = twenty.Cmp(ten)
	require.NoError(t, err)
	require.Equal(t, 1, got)

	got, err = ten.Cmp(mustMoney(t, "10.00", "USD"))
	require.NoError(t, err)
	require.Equal(t, 0, got)

	_, err = ten.Cmp(mustMoney(t, "10", "EUR"))
	require.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestMoneyRoundTripJSON(t *testing.T) {
	t.Parallel()

	m := mustMoney(t, "99.90", "EUR")

	raw, err := json.Marshal(m)
	require.NoError(t, err)
	require.JSONEq(t, `{"amount":"99.90","currency":"EUR"}`, string(raw))

	var decoded Money
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.True(t, m.Equal(decoded))
}
