package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
updateFrequency: "@every 5m"
email:
  type: imap
  imap:
    server: imap.example.com:993
    username: someone@example.com
    mailbox: INBOX
    sinceDays: 14
parser:
  type: email_router
  routes:
    - emails:
        - paylah.alert@dbs.com
        - ibanking.alert@dbs.com
      parser:
        type: dbs
        accountId: acct-1
        cardNumberMapping:
          "1380": card-acct
destination:
  type: ynab
  budgetName: Household
notifier:
  type: discord
sql:
  database: budgetmail
`

func TestReadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))

	t.Setenv("YNAB_ACCESS_TOKEN", "token-from-env")

	// Secrets file is missing, so only env secrets apply.
	require.NoError(t, ReadConfig("BUDGETMAIL_CONFIG_TEST", path, filepath.Join(t.TempDir(), "missing.ejson")))

	cfg := CurrentConfig()
	assert.Equal(t, "@every 5m", cfg.UpdateFrequency)
	assert.Equal(t, "imap", cfg.Email.Type)
	assert.Equal(t, "imap.example.com:993", cfg.Email.IMAP.Server)
	assert.Equal(t, "email_router", cfg.Parser.Type)
	require.Len(t, cfg.Parser.Routes, 1)
	assert.Equal(t, "dbs", cfg.Parser.Routes[0].Parser.Type)
	assert.Equal(t, "acct-1", cfg.Parser.Routes[0].Parser.AccountID)
	assert.Equal(t, "card-acct", cfg.Parser.Routes[0].Parser.CardNumberMapping["1380"])
	assert.Equal(t, "Household", cfg.Destination.BudgetName)
	assert.Equal(t, "budgetmail", cfg.SQL.Database)

	assert.Equal(t, "token-from-env", CurrentYnabSecrets().YnabAccessToken)
}

func TestReadConfig_DefaultUpdateFrequency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("sql:\n  database: budgetmail\n"), 0o600))

	require.NoError(t, ReadConfig("BUDGETMAIL_CONFIG_TEST", path, filepath.Join(t.TempDir(), "missing.ejson")))
	assert.Equal(t, DefaultUpdateFrequency, CurrentConfig().UpdateFrequency)
}
