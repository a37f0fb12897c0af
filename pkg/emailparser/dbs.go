package emailparser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	paylahSender   = "paylah.alert@dbs.com"
	ibankingSender = "ibanking.alert@dbs.com"

	transactionAlertsSubject = "Transaction Alerts"
	ibankingAlertsSubject    = "iBanking Alerts"
	receivedTransferSubject  = "digibank Alerts - You've received a transfer"
	cardTransactionSubject   = "Card Transaction Alert"
)

var (
	receivedBodyRegexp  = regexp.MustCompile(`(?i)received\s+(.*)\s+via\s+(.+?)\s+on\s+(.*)\.`)
	transactionIDRegexp = regexp.MustCompile(`(?i)>\s*Transaction Ref:\s*(.*?)\s*</`)
	cardSuffixRegexp    = regexp.MustCompile(`card ending (\d{4})`)
)

// DBSParser extracts transactions from DBS bank notification emails: PayLah
// and PayNow/FAST outgoing transfers, incoming digibank transfers, and card
// transaction alerts.
type DBSParser struct {
	accountID string

	// cardNumberMapping reassigns card transactions to another account by the
	// last four digits of the card as printed in the email's From field.
	cardNumberMapping map[string]string

	now func() time.Time
}

func NewDBSParser(accountID string, cardNumberMapping map[string]string) (*DBSParser, error) {
	if accountID == "" {
		return nil, errors.New("dbs parser requires an account id")
	}

	return &DBSParser{
		accountID:         accountID,
		cardNumberMapping: cardNumberMapping,
		now:               time.Now,
	}, nil
}

func (p *DBSParser) ParseTransactionEmail(email Email) ParseOutcome {
	switch {
	case email.Subject == transactionAlertsSubject && email.From == paylahSender:
		return p.parseSentTransaction(email, "PayLah")
	case email.Subject == ibankingAlertsSubject:
		return p.parseSentTransaction(email, "PayNow/FAST")
	case email.Subject == transactionAlertsSubject && email.From == ibankingSender:
		return p.parseSentTransaction(email, "PayNow/FAST")
	case email.Subject == receivedTransferSubject:
		return p.parseReceivedTransaction(email)
	case email.Subject == cardTransactionSubject:
		return p.parseCardTransaction(email)
	default:
		return ParseSkipped("Email did not appear to be a transaction email")
	}
}

func (p *DBSParser) parseSentTransaction(email Email, transferType string) ParseOutcome {
	table := NewTableParser(email.Body)

	to, ok := table.FindValue("To:")
	if !ok {
		return ParseError("Could not identify 'to' field from email")
	}

	from, ok := table.FindValue("From:")
	if !ok {
		return ParseError("Could not identify 'from' field from email")
	}

	dateTime, ok := table.FindValue("Date & Time:")
	if !ok {
		return ParseError("Could not identify 'date' field from email")
	}

	date, ok := ParseDate(dateTime, p.now())
	if !ok {
		return ParseError(fmt.Sprintf("Could not parse date from '%s'", dateTime))
	}

	amountText, ok := table.FindValue("Amount:")
	if !ok {
		return ParseError("Could not identify 'amount' field from email")
	}

	amount, ok := ParseCurrencyAmount(amountText)
	if !ok {
		return ParseError(fmt.Sprintf("Could not parse amount from '%s'", amountText))
	}

	notes := assembleNotes(fmt.Sprintf("%s Sent from %s to %s", transferType, from, to), email)

	return ParseSuccess([]Transaction{{
		AccountID: p.accountID,
		ImportID:  email.ID,
		Date:      date,
		Amount:    amount.Amount.Neg(),
		Payee:     to,
		Notes:     notes,
	}})
}

func (p *DBSParser) parseReceivedTransaction(email Email) ParseOutcome {
	m := receivedBodyRegexp.FindStringSubmatch(email.Body)
	if m == nil {
		return ParseError("Could not extract basic information from email body")
	}

	amountText, transferType, dateText := m[1], m[2], m[3]

	date, ok := ParseDate(dateText, p.now())
	if !ok {
		return ParseError(fmt.Sprintf("Could not parse date from '%s'", dateText))
	}

	amount, ok := ParseCurrencyAmount(amountText)
	if !ok {
		return ParseError(fmt.Sprintf("Could not parse amount from '%s'", amountText))
	}

	from, ok := ExtractStrongField(email.Body, "From")
	if !ok {
		return ParseError("Could not identify 'from' field from email")
	}

	to, ok := ExtractStrongField(email.Body, "To")
	if !ok {
		return ParseError("Could not identify 'to' field from email")
	}

	notes := assembleNotes(fmt.Sprintf("%s Received from %s to %s", transferType, from, to), email)

	return ParseSuccess([]Transaction{{
		AccountID: p.accountID,
		ImportID:  email.ID,
		Date:      date,
		Amount:    amount.Amount,
		Payee:     from,
		Notes:     notes,
	}})
}

func (p *DBSParser) parseCardTransaction(email Email) ParseOutcome {
	to, ok := ExtractLabeledField(email.Body, "To")
	if !ok {
		return ParseError("Could not identify 'to' field from email")
	}

	from, ok := ExtractLabeledField(email.Body, "From")
	if !ok {
		return ParseError("Could not identify 'from' field from email")
	}

	dateTime, ok := ExtractLabeledField(email.Body, "Date & Time")
	if !ok {
		return ParseError("Could not identify 'date' field from email")
	}

	date, ok := ParseDate(dateTime, p.now())
	if !ok {
		return ParseError(fmt.Sprintf("Could not parse date from '%s'", dateTime))
	}

	amountText, ok := ExtractLabeledField(email.Body, "Amount")
	if !ok {
		return ParseError("Could not identify 'amount' field from email")
	}

	amount, ok := ParseCurrencyAmount(amountText)
	if !ok {
		return ParseError(fmt.Sprintf("Could not parse amount from '%s'", amountText))
	}

	notes := assembleNotes(fmt.Sprintf("Card Transaction from %s", from), email)

	return ParseSuccess([]Transaction{{
		AccountID: p.cardAccountID(from),
		ImportID:  email.ID,
		Date:      date,
		Amount:    amount.Amount.Neg(),
		Payee:     to,
		Notes:     notes,
	}})
}

// cardAccountID remaps the owning account by card suffix when the email's
// From field names a card present in the mapping. Only the account changes.
func (p *DBSParser) cardAccountID(from string) string {
	m := cardSuffixRegexp.FindStringSubmatch(from)
	if m == nil {
		return p.accountID
	}

	if accountID, ok := p.cardNumberMapping[m[1]]; ok {
		return accountID
	}

	return p.accountID
}

// assembleNotes joins the human-readable summary, the upstream transaction
// reference when one is present in the body, and the source permalink.
func assembleNotes(summary string, email Email) string {
	items := []string{summary}

	if ref, ok := parseTransactionID(email.Body); ok {
		items = append(items, fmt.Sprintf("Transaction ID: %s", ref))
	}

	if email.Link != "" {
		items = append(items, fmt.Sprintf("Link: %s", email.Link))
	}

	return strings.Join(items, "\n")
}

func parseTransactionID(body string) (string, bool) {
	m := transactionIDRegexp.FindStringSubmatch(body)
	if m == nil || m[1] == "" {
		return "", false
	}

	return m[1], true
}
