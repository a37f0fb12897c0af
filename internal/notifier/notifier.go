package notifier

import (
	"context"
	"fmt"

	"github.com/budgetmail/budgetmail/internal/config"
)

// Notifier reports pass outcomes to the operator. Calls are awaited but not
// retried; a failed notification surfaces as a pass-level error.
type Notifier interface {
	Info(ctx context.Context, message string) error
	Err(ctx context.Context, message string) error
}

func NewFromConfig(cfg config.NotifierConfig) (Notifier, error) {
	switch cfg.Type {
	case "discord":
		return NewDiscordNotifier(config.CurrentDiscordSecrets().WebhookURL)
	case "log":
		return &LogNotifier{}, nil
	default:
		return nil, fmt.Errorf("unknown notifier type: %s", cfg.Type)
	}
}
