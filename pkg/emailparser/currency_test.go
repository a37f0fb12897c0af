package emailparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurrencyAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		currency string
		amount   string
	}{
		{name: "currency first", input: "SGD 100.50", currency: "SGD", amount: "100.50"},
		{name: "currency last", input: "100.50 SGD", currency: "SGD", amount: "100.50"},
		{name: "no space", input: "SGD61.80", currency: "SGD", amount: "61.80"},
		{name: "lowercase currency", input: "usd 250.00", currency: "USD", amount: "250.00"},
		{name: "surrounding whitespace", input: "  SGD   0.01  ", currency: "SGD", amount: "0.01"},
		{name: "integer amount", input: "JPY 4100", currency: "JPY", amount: "4100.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCurrencyAmount(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.currency, got.Currency)
			assert.Equal(t, tt.amount, got.Amount.StringFixed(2))
		})
	}
}

func TestParseCurrencyAmount_Invalid(t *testing.T) {
	for _, input := range []string{
		"invalid amount",
		"",
		"100.50",
		"   ",
	} {
		_, ok := ParseCurrencyAmount(input)
		assert.False(t, ok, "input %q", input)
	}
}
