package emailparser

import "fmt"

const (
	ParserTypeDBS         = "dbs"
	ParserTypeEmailRouter = "email_router"
)

// Config selects and configures a parser. Route parsers nest recursively;
// because the configuration is a value tree, route cycles cannot be
// expressed.
type Config struct {
	Type      string `json:"type"`
	AccountID string `json:"accountId"`
	// Card suffix (last four digits) to alternate account id, for card
	// transactions charged to a different budget account.
	CardNumberMapping map[string]string `json:"cardNumberMapping"`
	Routes            []RouteConfig     `json:"routes"`
}

type RouteConfig struct {
	Emails []string `json:"emails"`
	Parser Config   `json:"parser"`
}

// NewFromConfig builds the parser tree once at startup. Invalid
// configuration (unknown type, empty account id) is fatal here, never a
// per-message parse error.
func NewFromConfig(cfg Config) (TransactionParser, error) {
	switch cfg.Type {
	case ParserTypeDBS:
		return NewDBSParser(cfg.AccountID, cfg.CardNumberMapping)

	case ParserTypeEmailRouter:
		routes := make(map[string]TransactionParser)

		for _, route := range cfg.Routes {
			parser, err := NewFromConfig(route.Parser)
			if err != nil {
				return nil, err
			}

			for _, sender := range route.Emails {
				routes[sender] = parser
			}
		}

		return NewRoutingParser(routes), nil

	default:
		return nil, fmt.Errorf("unknown parser type: %s", cfg.Type)
	}
}
