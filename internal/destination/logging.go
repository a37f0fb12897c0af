package destination

import (
	"context"
	"fmt"

	"k8s.io/klog"

	"github.com/budgetmail/budgetmail/pkg/emailparser"
)

// LoggingDestination prints transactions instead of importing them. Useful as
// a dry-run destination while bringing up a new parser configuration.
type LoggingDestination struct{}

func (d *LoggingDestination) Init(_ context.Context) error {
	return nil
}

func (d *LoggingDestination) Shutdown(_ context.Context) error {
	return nil
}

func (d *LoggingDestination) ImportTransactions(_ context.Context, transactions []emailparser.Transaction) error {
	if len(transactions) == 0 {
		klog.Infoln("No transactions to import")
		return nil
	}

	for _, t := range transactions {
		klog.Infof("  %s\n", formatTransaction(t))
	}

	return nil
}

func formatTransaction(t emailparser.Transaction) string {
	sign := ""
	if !t.Amount.IsNegative() {
		sign = "+"
	}

	amount := sign + t.Amount.StringFixed(2)

	notes := ""
	if t.Notes != "" {
		notes = fmt.Sprintf(" (%s)", t.Notes)
	}

	return fmt.Sprintf(" %s  %s  %12s  %s%s", t.ImportID, t.Date.Format("2006-01-02"), amount, t.Payee, notes)
}
