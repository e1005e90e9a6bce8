package currencypkg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsSupportedCurrency(t *testing.T) {
	t.Parallel()

	for _, c := range SupportedCurrencies {
		require.True(t, IsSupportedCurrency(c))
	}

	require.False(t, IsSupportedCurrency("DOGE"))
	require.False(t, IsSupportedCurrency("usd"))
	require.False(t, IsSupportedCurrency(""))
}

func TestExponent(t *testing.T) {
	t.Parallel()

	require.EqualValues(t, 2, Exponent(USD))
	require.EqualValues(t, 0, Exponent(JPY))
	require.EqualValues(t, 2, Exponent("UNKNOWN"))
}
