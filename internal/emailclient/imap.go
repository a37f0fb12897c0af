package emailclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	imapclient "github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
	"k8s.io/klog"

	"github.com/budgetmail/budgetmail/internal/config"
	"github.com/budgetmail/budgetmail/pkg/emailparser"
)

const defaultSinceDays = 30

// IMAPClient fetches candidate messages over IMAP. The message id is the
// RFC 822 Message-Id header, which is stable across fetches.
type IMAPClient struct {
	server    string
	username  string
	password  string
	mailbox   string
	sinceDays int

	c *imapclient.Client
}

func NewIMAPClient(cfg config.IMAPConfig, password string) (*IMAPClient, error) {
	if cfg.Server == "" {
		return nil, errors.New("imap client requires a server address")
	}

	if cfg.Username == "" {
		return nil, errors.New("imap client requires a username")
	}

	mailbox := cfg.Mailbox
	if mailbox == "" {
		mailbox = "INBOX"
	}

	sinceDays := cfg.SinceDays
	if sinceDays <= 0 {
		sinceDays = defaultSinceDays
	}

	return &IMAPClient{
		server:    cfg.Server,
		username:  cfg.Username,
		password:  password,
		mailbox:   mailbox,
		sinceDays: sinceDays,
	}, nil
}

func (c *IMAPClient) Init(_ context.Context) error {
	conn, err := imapclient.DialTLS(c.server, nil)
	if err != nil {
		return fmt.Errorf("unable to connect to imap server %s: %w", c.server, err)
	}

	if err := conn.Login(c.username, c.password); err != nil {
		return fmt.Errorf("imap login failed: %w", err)
	}

	c.c = conn

	return nil
}

func (c *IMAPClient) ListUnprocessedMessages(ctx context.Context, store SeenStore) ([]emailparser.Email, error) {
	if _, err := c.c.Select(c.mailbox, true); err != nil {
		return nil, fmt.Errorf("unable to select mailbox %s: %w", c.mailbox, err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.Since = time.Now().AddDate(0, 0, -c.sinceDays)

	seqNums, err := c.c.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("imap search failed: %w", err)
	}

	if len(seqNums) == 0 {
		return nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(seqNums...)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{imap.FetchEnvelope, section.FetchItem()}

	messages := make(chan *imap.Message, 16)
	done := make(chan error, 1)

	go func() {
		done <- c.c.Fetch(seqset, items, messages)
	}()

	var emails []emailparser.Email

	for msg := range messages {
		email, skip, err := c.messageToEmail(ctx, store, msg, section)
		if err != nil {
			klog.Errorf("Skipping unreadable imap message: %v\n", err)
			continue
		}

		if skip {
			continue
		}

		emails = append(emails, email)
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("imap fetch failed: %w", err)
	}

	return emails, nil
}

func (c *IMAPClient) messageToEmail(ctx context.Context, store SeenStore, msg *imap.Message, section *imap.BodySectionName) (emailparser.Email, bool, error) {
	env := msg.Envelope
	if env == nil || env.MessageId == "" {
		return emailparser.Email{}, false, errors.New("message has no envelope id")
	}

	seen, err := store.HasSeen(ctx, env.MessageId)
	if err != nil {
		return emailparser.Email{}, false, err
	}

	if seen {
		return emailparser.Email{}, true, nil
	}

	from := ""
	if len(env.From) > 0 {
		from = env.From[0].Address()
	}

	body, err := readBody(msg.GetBody(section))
	if err != nil {
		return emailparser.Email{}, false, fmt.Errorf("message %s: %w", env.MessageId, err)
	}

	return emailparser.Email{
		ID:      env.MessageId,
		From:    from,
		Subject: env.Subject,
		Body:    body,
		Date:    env.Date,
	}, false, nil
}

// readBody extracts the html part of a message, falling back to the first
// plain text part.
func readBody(r io.Reader) (string, error) {
	if r == nil {
		return "", errors.New("no body section")
	}

	mr, err := mail.CreateReader(r)
	if err != nil {
		return "", err
	}

	plain := ""

	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}

		if err != nil {
			return "", err
		}

		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		contentType, _, err := h.ContentType()
		if err != nil {
			continue
		}

		raw, err := io.ReadAll(p.Body)
		if err != nil {
			return "", err
		}

		if strings.EqualFold(contentType, "text/html") {
			return string(raw), nil
		}

		if plain == "" && strings.EqualFold(contentType, "text/plain") {
			plain = string(raw)
		}
	}

	if plain == "" {
		return "", errors.New("message has no readable body part")
	}

	return plain, nil
}

func (c *IMAPClient) Close() error {
	if c.c == nil {
		return nil
	}

	return c.c.Logout()
}
