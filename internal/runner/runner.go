package runner

import (
	"context"
	"fmt"
	"strings"

	"k8s.io/klog"

	"github.com/budgetmail/budgetmail/internal/destination"
	"github.com/budgetmail/budgetmail/internal/emailclient"
	"github.com/budgetmail/budgetmail/internal/notifier"
	"github.com/budgetmail/budgetmail/pkg/emailparser"
)

// Store is the idempotency gate around the pipeline.
type Store interface {
	HasSeen(ctx context.Context, id string) (bool, error)
	MarkSeen(ctx context.Context, id string) error
}

// Runner drives one sync pass: fetch candidate emails, parse each, and branch
// on the outcome. Emails are processed strictly in fetch order, one at a
// time; there is never more than one pass in flight.
type Runner struct {
	parser      emailparser.TransactionParser
	destination destination.Destination
	notifier    notifier.Notifier
	client      emailclient.Client
	store       Store
}

func New(parser emailparser.TransactionParser, dest destination.Destination, notif notifier.Notifier, client emailclient.Client, store Store) *Runner {
	return &Runner{
		parser:      parser,
		destination: dest,
		notifier:    notif,
		client:      client,
		store:       store,
	}
}

func (r *Runner) Init(ctx context.Context) error {
	if err := r.destination.Init(ctx); err != nil {
		return fmt.Errorf("error initializing destination: %w", err)
	}

	if err := r.client.Init(ctx); err != nil {
		return fmt.Errorf("error initializing email client: %w", err)
	}

	return nil
}

// RunPass runs one pass and reports any pass-level failure to the error
// notifier, so a sink outage or a store error never kills the schedule.
func (r *Runner) RunPass(ctx context.Context) error {
	err := r.runOnce(ctx)
	if err != nil {
		if notifyErr := r.notifier.Err(ctx, fmt.Sprintf("Uncaught error running transaction sync: %v", err)); notifyErr != nil {
			klog.Errorf("Failed to report pass error: %v\n", notifyErr)
		}
	}

	return err
}

func (r *Runner) runOnce(ctx context.Context) error {
	emails, err := r.client.ListUnprocessedMessages(ctx, r.store)
	if err != nil {
		return fmt.Errorf("error listing messages: %w", err)
	}

	for _, email := range emails {
		if err := r.processEmail(ctx, email); err != nil {
			return err
		}
	}

	return nil
}

func (r *Runner) processEmail(ctx context.Context, email emailparser.Email) error {
	seen, err := r.store.HasSeen(ctx, email.ID)
	if err != nil {
		return fmt.Errorf("error checking seen state for %s: %w", email.ID, err)
	}

	if seen {
		return nil
	}

	outcome := r.parser.ParseTransactionEmail(email)

	switch outcome.Result {
	case emailparser.ParseResultSuccess:
		// Import strictly before marking seen: a crash in between redelivers
		// the email, while the opposite order would silently lose it.
		if err := r.destination.ImportTransactions(ctx, outcome.Transactions); err != nil {
			return fmt.Errorf("error importing transactions from %s: %w", email.ID, err)
		}

		message := fmt.Sprintf("Successfully imported transactions from %s\n%s",
			formatEmailRef(email), formatTransactions(outcome.Transactions))
		if err := r.notifier.Info(ctx, message); err != nil {
			return err
		}

		if err := r.store.MarkSeen(ctx, email.ID); err != nil {
			return fmt.Errorf("error marking %s seen: %w", email.ID, err)
		}

	case emailparser.ParseResultSkipped:
		// A skip is terminal; mark seen so it is not re-announced every pass.
		message := fmt.Sprintf("Skipped %s\n'%s'", formatEmailRef(email), outcome.Message)
		if err := r.notifier.Info(ctx, message); err != nil {
			return err
		}

		if err := r.store.MarkSeen(ctx, email.ID); err != nil {
			return fmt.Errorf("error marking %s seen: %w", email.ID, err)
		}

	case emailparser.ParseResultError:
		// Not marked seen: the email stays a candidate for the next pass.
		message := fmt.Sprintf("Error while parsing transaction %s\n%s", formatEmailRef(email), outcome.Message)
		if err := r.notifier.Err(ctx, message); err != nil {
			return err
		}
	}

	return nil
}

func formatEmailRef(email emailparser.Email) string {
	if email.Link != "" {
		return fmt.Sprintf("[email](%s)", email.Link)
	}

	return fmt.Sprintf("email from '%s' with subject '%s'", email.From, email.Subject)
}

func formatTransactions(transactions []emailparser.Transaction) string {
	lines := make([]string, 0, len(transactions))
	for _, t := range transactions {
		lines = append(lines, fmt.Sprintf("- %s: (%s)", t.Payee, t.Amount.StringFixed(2)))
	}

	return strings.Join(lines, "\n")
}
