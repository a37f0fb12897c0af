package destination

import (
	"context"
	"fmt"

	"github.com/budgetmail/budgetmail/internal/config"
	"github.com/budgetmail/budgetmail/pkg/emailparser"
)

// Destination durably records imported transactions. There is exactly one
// destination per process; it is constructed at startup and shut down once at
// process exit.
type Destination interface {
	Init(ctx context.Context) error
	Shutdown(ctx context.Context) error
	ImportTransactions(ctx context.Context, transactions []emailparser.Transaction) error
}

func NewFromConfig(cfg config.DestinationConfig) (Destination, error) {
	switch cfg.Type {
	case "ynab":
		return NewYnabDestination(cfg.BudgetName, config.CurrentYnabSecrets().YnabAccessToken)
	case "logging":
		return &LoggingDestination{}, nil
	default:
		return nil, fmt.Errorf("unknown destination type: %s", cfg.Type)
	}
}
