package emailparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubParser struct {
	outcome ParseOutcome
	calls   int
}

func (p *stubParser) ParseTransactionEmail(_ Email) ParseOutcome {
	p.calls++
	return p.outcome
}

func TestRoutingParser_DelegatesVerbatim(t *testing.T) {
	outcomes := []ParseOutcome{
		ParseSuccess([]Transaction{{AccountID: "a", ImportID: "i", Payee: "p"}}),
		ParseSkipped("not a transaction"),
		ParseError("broken"),
	}

	for _, outcome := range outcomes {
		stub := &stubParser{outcome: outcome}
		router := NewRoutingParser(map[string]TransactionParser{"a@x.com": stub})

		got := router.ParseTransactionEmail(Email{From: "a@x.com"})
		assert.Equal(t, outcome, got)
		assert.Equal(t, 1, stub.calls)
	}
}

func TestRoutingParser_UnknownSender(t *testing.T) {
	router := NewRoutingParser(map[string]TransactionParser{"a@x.com": &stubParser{}})

	got := router.ParseTransactionEmail(Email{From: "b@y.com"})
	require.Equal(t, ParseResultError, got.Result)
	assert.Contains(t, got.Message, "b@y.com")
	assert.Empty(t, got.Transactions)
}

func TestRoutingParser_Nested(t *testing.T) {
	stub := &stubParser{outcome: ParseSkipped("inner")}
	inner := NewRoutingParser(map[string]TransactionParser{"a@x.com": stub})
	outer := NewRoutingParser(map[string]TransactionParser{"a@x.com": inner})

	got := outer.ParseTransactionEmail(Email{From: "a@x.com"})
	assert.Equal(t, ParseSkipped("inner"), got)
}
