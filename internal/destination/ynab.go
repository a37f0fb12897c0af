package destination

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/davidsteinsland/ynab-go/ynab"
	"github.com/shopspring/decimal"
	"k8s.io/klog"

	"github.com/budgetmail/budgetmail/pkg/emailparser"
)

const ynabAPIEndpoint = "https://api.youneedabudget.com/v1"

// YnabDestination imports transactions into a YNAB budget. The budget id is
// resolved from the configured budget name once at Init.
type YnabDestination struct {
	client      *ynab.Client
	accessToken string
	budgetName  string
	budgetID    string
	httpClient  *http.Client
	endpoint    string
}

func NewYnabDestination(budgetName, accessToken string) (*YnabDestination, error) {
	if budgetName == "" {
		return nil, errors.New("ynab destination requires a budget name")
	}

	if accessToken == "" {
		return nil, errors.New("ynab destination requires an access token")
	}

	return &YnabDestination{
		client:      ynab.NewDefaultClient(accessToken),
		accessToken: accessToken,
		budgetName:  budgetName,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		endpoint:    ynabAPIEndpoint,
	}, nil
}

func (d *YnabDestination) Init(_ context.Context) error {
	budgets, err := d.client.BudgetService.List()
	if err != nil {
		return fmt.Errorf("error listing ynab budgets: %s", err)
	}

	for _, b := range budgets {
		if b.Name == d.budgetName {
			d.budgetID = b.Id
			return nil
		}
	}

	return fmt.Errorf("unable to find ID for budget: %s", d.budgetName)
}

func (d *YnabDestination) Shutdown(_ context.Context) error {
	return nil
}

type saveTransaction struct {
	AccountID string `json:"account_id"`
	Date      string `json:"date"`
	// Milliunits, signed the same way as the source amount.
	Amount    int64  `json:"amount"`
	PayeeName string `json:"payee_name,omitempty"`
	Memo      string `json:"memo,omitempty"`
	ImportID  string `json:"import_id,omitempty"`
	Cleared   string `json:"cleared"`
}

type saveTransactionsRequest struct {
	Transactions []saveTransaction `json:"transactions"`
}

func (d *YnabDestination) ImportTransactions(ctx context.Context, transactions []emailparser.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	payload := saveTransactionsRequest{
		Transactions: make([]saveTransaction, 0, len(transactions)),
	}

	for _, t := range transactions {
		payload.Transactions = append(payload.Transactions, saveTransaction{
			AccountID: t.AccountID,
			Date:      t.Date.Format("2006-01-02"),
			Amount:    Milliunits(t.Amount),
			PayeeName: t.Payee,
			Memo:      t.Notes,
			ImportID:  t.ImportID,
			Cleared:   "cleared",
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/budgets/%s/transactions", d.endpoint, d.budgetID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+d.accessToken)
	req.Header.Set("Content-Type", "application/json")

	rs, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error importing transactions to ynab: %s", err)
	}

	defer rs.Body.Close()

	if rs.StatusCode < 200 || rs.StatusCode >= 300 {
		respBody, _ := io.ReadAll(rs.Body)
		return fmt.Errorf("ynab transaction import failed: %s: %s", rs.Status, string(respBody))
	}

	klog.Infof("Imported %d transactions to ynab budget %s\n", len(transactions), d.budgetName)

	return nil
}

// Milliunits converts an exact decimal amount to YNAB's integer minor units
// (thousandths), rounding half away from zero.
func Milliunits(amount decimal.Decimal) int64 {
	return amount.Shift(3).Round(0).IntPart()
}
