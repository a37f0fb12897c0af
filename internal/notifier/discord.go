package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// suppress-notifications flag, so imports don't ping anyone
const discordMessageFlags = 4

// DiscordNotifier posts messages to a Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	httpClient *http.Client
}

func NewDiscordNotifier(webhookURL string) (*DiscordNotifier, error) {
	if webhookURL == "" {
		return nil, errors.New("discord notifier requires a webhook url")
	}

	return &DiscordNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type discordMessage struct {
	Content string `json:"content"`
	Flags   int    `json:"flags"`
}

func (n *DiscordNotifier) send(ctx context.Context, message string) error {
	body, err := json.Marshal(discordMessage{Content: message, Flags: discordMessageFlags})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	rs, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send discord message: %s", err)
	}

	defer rs.Body.Close()

	if rs.StatusCode < 200 || rs.StatusCode >= 300 {
		return fmt.Errorf("failed to send discord message: %s", rs.Status)
	}

	return nil
}

func (n *DiscordNotifier) Info(ctx context.Context, message string) error {
	return n.send(ctx, message)
}

func (n *DiscordNotifier) Err(ctx context.Context, message string) error {
	return n.send(ctx, message)
}
