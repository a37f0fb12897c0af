package emailparser

import (
	"time"

	"github.com/shopspring/decimal"
)

// Email is a single message fetched from the mail backend. It is read-only;
// only its ID outlives a pass (in the seen-email store).
type Email struct {
	ID      string
	From    string
	Subject string
	Body    string
	Date    time.Time
	Link    string
}

// Transaction is a parsed bank transaction ready for import. Amount sign
// encodes direction: negative is an outflow, positive an inflow.
type Transaction struct {
	AccountID string
	ImportID  string
	Date      time.Time
	Amount    decimal.Decimal
	Payee     string
	Notes     string
}

type ParseResult int

const (
	ParseResultSuccess ParseResult = iota
	ParseResultSkipped
	ParseResultError
)

func (r ParseResult) String() string {
	switch r {
	case ParseResultSuccess:
		return "success"
	case ParseResultSkipped:
		return "skipped"
	case ParseResultError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseOutcome is the three-way result of a parse attempt. Skipped means the
// email was recognized as not a transaction email; Error means it looked like
// one but a required field was missing or malformed. Only Success carries
// transactions.
type ParseOutcome struct {
	Result       ParseResult
	Transactions []Transaction
	Message      string
}

func ParseSuccess(transactions []Transaction) ParseOutcome {
	return ParseOutcome{
		Result:       ParseResultSuccess,
		Transactions: transactions,
	}
}

func ParseSkipped(reason string) ParseOutcome {
	return ParseOutcome{
		Result:  ParseResultSkipped,
		Message: reason,
	}
}

func ParseError(message string) ParseOutcome {
	return ParseOutcome{
		Result:  ParseResultError,
		Message: message,
	}
}

// TransactionParser turns a single email into a ParseOutcome. Implementations
// never panic on malformed input; every failure is returned as a value.
type TransactionParser interface {
	ParseTransactionEmail(email Email) ParseOutcome
}
