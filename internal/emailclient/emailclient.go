package emailclient

import (
	"context"
	"fmt"

	"github.com/budgetmail/budgetmail/internal/config"
	"github.com/budgetmail/budgetmail/pkg/emailparser"
)

// SeenStore is the read side of the idempotency store. Clients consult it
// while listing so already-processed message bodies are never transferred,
// but the runner stays the final authority on sequencing.
type SeenStore interface {
	HasSeen(ctx context.Context, id string) (bool, error)
}

// Client fetches candidate transaction emails from a mailbox.
type Client interface {
	Init(ctx context.Context) error
	ListUnprocessedMessages(ctx context.Context, store SeenStore) ([]emailparser.Email, error)
}

func NewFromConfig(cfg config.EmailClientConfig) (Client, error) {
	switch cfg.Type {
	case "gmail":
		return NewGmailClient(cfg.Gmail)
	case "imap":
		return NewIMAPClient(cfg.IMAP, config.CurrentIMAPSecrets().Password)
	default:
		return nil, fmt.Errorf("unknown email client type: %s", cfg.Type)
	}
}
