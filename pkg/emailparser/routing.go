package emailparser

import "fmt"

// RoutingParser delegates to a sub-parser selected by sender address. It
// implements TransactionParser itself, so routers can nest. An unrouted
// sender is an error, not a skip: a watched mailbox receiving mail from an
// unconfigured sender needs operator attention.
type RoutingParser struct {
	routes map[string]TransactionParser
}

func NewRoutingParser(routes map[string]TransactionParser) *RoutingParser {
	m := make(map[string]TransactionParser, len(routes))
	for sender, parser := range routes {
		m[sender] = parser
	}

	return &RoutingParser{routes: m}
}

func (p *RoutingParser) ParseTransactionEmail(email Email) ParseOutcome {
	parser, ok := p.routes[email.From]
	if !ok {
		return ParseError(fmt.Sprintf("Could not route message for parsing: unknown email %s", email.From))
	}

	return parser.ParseTransactionEmail(email)
}
