package emailclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	"k8s.io/klog"

	"github.com/budgetmail/budgetmail/internal/config"
	"github.com/budgetmail/budgetmail/pkg/emailparser"
)

// GmailClient lists messages under a label via the Gmail API. Credentials
// follow the usual installed-app OAuth flow: a credentials file plus a
// previously obtained token file.
type GmailClient struct {
	label           string
	credentialsFile string
	tokenFile       string

	svc *gmail.Service
}

func NewGmailClient(cfg config.GmailConfig) (*GmailClient, error) {
	if cfg.Label == "" {
		return nil, errors.New("gmail client requires a label")
	}

	return &GmailClient{
		label:           cfg.Label,
		credentialsFile: cfg.CredentialsFile,
		tokenFile:       cfg.TokenFile,
	}, nil
}

func (c *GmailClient) Init(ctx context.Context) error {
	raw, err := os.ReadFile(c.credentialsFile)
	if err != nil {
		return fmt.Errorf("unable to read gmail credentials file: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(raw, gmail.GmailReadonlyScope)
	if err != nil {
		return fmt.Errorf("unable to parse gmail credentials file: %w", err)
	}

	token, err := readToken(c.tokenFile)
	if err != nil {
		return fmt.Errorf("unable to read gmail token file: %w", err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(oauthConfig.Client(ctx, token)))
	if err != nil {
		return fmt.Errorf("unable to create gmail service: %w", err)
	}

	c.svc = svc

	return nil
}

func readToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(token)

	return token, err
}

func (c *GmailClient) ListUnprocessedMessages(ctx context.Context, store SeenStore) ([]emailparser.Email, error) {
	list, err := c.svc.Users.Messages.List("me").Q("label:" + c.label).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list gmail messages: %w", err)
	}

	var emails []emailparser.Email

	for _, m := range list.Messages {
		seen, err := store.HasSeen(ctx, m.Id)
		if err != nil {
			return nil, err
		}

		if seen {
			continue
		}

		msg, err := c.svc.Users.Messages.Get("me", m.Id).Format("full").Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("unable to fetch gmail message %s: %w", m.Id, err)
		}

		email, err := messageToEmail(msg)
		if err != nil {
			klog.Errorf("Skipping unreadable message %s: %v\n", m.Id, err)
			continue
		}

		emails = append(emails, email)
	}

	return emails, nil
}

func messageToEmail(msg *gmail.Message) (emailparser.Email, error) {
	email := emailparser.Email{
		ID:   msg.Id,
		Link: fmt.Sprintf("https://mail.google.com/mail/u/0/#all/%s", msg.Id),
	}

	for _, h := range msg.Payload.Headers {
		switch h.Name {
		case "From":
			email.From = bareAddress(h.Value)
		case "Subject":
			email.Subject = h.Value
		case "Date":
			if t, err := mail.ParseDate(h.Value); err == nil {
				email.Date = t
			}
		}
	}

	body, ok := findBodyPart(msg.Payload, "text/html")
	if !ok {
		body, ok = findBodyPart(msg.Payload, "text/plain")
	}

	if !ok {
		return emailparser.Email{}, errors.New("message has no readable body part")
	}

	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(body, "="))
	if err != nil {
		return emailparser.Email{}, fmt.Errorf("unable to decode message body: %w", err)
	}

	email.Body = string(decoded)

	return email, nil
}

func findBodyPart(part *gmail.MessagePart, mimeType string) (string, bool) {
	if part == nil {
		return "", false
	}

	if part.MimeType == mimeType && part.Body != nil && part.Body.Data != "" {
		return part.Body.Data, true
	}

	for _, p := range part.Parts {
		if data, ok := findBodyPart(p, mimeType); ok {
			return data, true
		}
	}

	return "", false
}

// bareAddress reduces "DBS Bank <paylah.alert@dbs.com>" to the address, which
// is what parser routes match on.
func bareAddress(from string) string {
	addr, err := mail.ParseAddress(from)
	if err != nil {
		return strings.TrimSpace(from)
	}

	return addr.Address
}
