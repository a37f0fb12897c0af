package config

import (
	"github.com/budgetmail/budgetmail/pkg/emailparser"
)

type Config struct {
	// Cron spec controlling how often a sync pass runs, e.g. "@every 10m".
	UpdateFrequency string `json:"updateFrequency"`

	Email       EmailClientConfig  `json:"email"`
	Parser      emailparser.Config `json:"parser"`
	Destination DestinationConfig  `json:"destination"`
	Notifier    NotifierConfig     `json:"notifier"`

	SQL SQLConfig `json:"sql"`
}

type EmailClientConfig struct {
	// "gmail" or "imap"
	Type  string      `json:"type"`
	Gmail GmailConfig `json:"gmail"`
	IMAP  IMAPConfig  `json:"imap"`
}

type GmailConfig struct {
	// Label whose messages are candidate transaction emails.
	Label           string `json:"label"`
	CredentialsFile string `json:"credentialsFile"`
	TokenFile       string `json:"tokenFile"`
}

type IMAPConfig struct {
	Server   string `json:"server"`
	Username string `json:"username"`
	Mailbox  string `json:"mailbox"`
	// How far back to search for candidate messages.
	SinceDays int `json:"sinceDays"`
}

type DestinationConfig struct {
	// "ynab" or "logging"
	Type string `json:"type"`
	// Budget name, resolved to an id against the YNAB API at startup.
	BudgetName string `json:"budgetName"`
}

type NotifierConfig struct {
	// "discord" or "log"
	Type string `json:"type"`
}

type SQLConfig struct {
	Database string `json:"database"`
}

type Secrets struct {
	Ynab    YnabSecrets    `json:"ynab"`
	Discord DiscordSecrets `json:"discord"`
	IMAP    IMAPSecrets    `json:"imap"`
	SQL     SqlSecrets     `json:"sql"`

	// Alternative to the Sql struct, designed to be used with a platform
	// provided env variable.
	DatabaseURL string `env:"DATABASE_URL"`
}

type YnabSecrets struct {
	YnabAccessToken string `json:"ynabAccessToken" env:"YNAB_ACCESS_TOKEN"`
}

type DiscordSecrets struct {
	WebhookURL string `json:"webhookUrl" env:"DISCORD_WEBHOOK_URL"`
}

type IMAPSecrets struct {
	Password string `json:"password" env:"IMAP_PASSWORD"`
}

type SqlSecrets struct {
	SqlHost     string `env:"SQL_HOST"`
	SqlUsername string `env:"SQL_USERNAME"`
	SqlPassword string `env:"SQL_PASSWORD"`
}
