package emailparser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount strings interleave an ISO-like currency code and a decimal number in
// either order ("SGD 100.50", "100.50 SGD", "SGD61.80").
var currencyAmountRegexp = regexp.MustCompile(`([A-Za-z]+)?\s*([0-9]+(?:\.[0-9]+)?)\s*([A-Za-z]+)?`)

type CurrencyAmount struct {
	Currency string
	Amount   decimal.Decimal
}

// ParseCurrencyAmount extracts a currency code and exact decimal amount from
// a loosely formatted amount string. The currency may lead or trail the
// number; whichever alphabetic token is present wins. Returns ok=false when
// no number is found or the currency is unrecoverable.
func ParseCurrencyAmount(input string) (CurrencyAmount, bool) {
	m := currencyAmountRegexp.FindStringSubmatch(strings.TrimSpace(input))
	if m == nil {
		return CurrencyAmount{}, false
	}

	currency := m[1]
	if currency == "" {
		currency = m[3]
	}

	if currency == "" {
		return CurrencyAmount{}, false
	}

	amount, err := decimal.NewFromString(m[2])
	if err != nil {
		return CurrencyAmount{}, false
	}

	return CurrencyAmount{
		Currency: strings.ToUpper(currency),
		Amount:   amount,
	}, true
}
