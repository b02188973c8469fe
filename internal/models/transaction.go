package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a normalized ledger entry ready for persistence.
type Transaction struct {
	ID                string
	BankAccountID     string
	Date              time.Time
	Description       string
	Amount            decimal.Decimal
	Type              TransactionType
	Currency          *string
	Category          *string
	Notes             *string
	ExternalReference *string
	IsReconciled      bool
}

type transactionJSON struct {
	ID                string          `json:"id"`
	BankAccountID     string          `json:"bankAccountId"`
	Date              string          `json:"date"`
	Description       string          `json:"description"`
	Amount            string          `json:"amount"`
	Type              TransactionType `json:"type"`
	Currency          *string         `json:"currency"`
	Category          *string         `json:"category"`
	Notes             *string         `json:"notes"`
	ExternalReference *string         `json:"externalReference"`
	IsReconciled      bool            `json:"isReconciled"`
}

// MarshalJSON renders the date as YYYY-MM-DD and the amount with two fixed
// decimals.
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		ID:                t.ID,
		BankAccountID:     t.BankAccountID,
		Date:              t.Date.UTC().Format(DateLayoutISO),
		Description:       t.Description,
		Amount:            FormatAmount(t.Amount),
		Type:              t.Type,
		Currency:          t.Currency,
		Category:          t.Category,
		Notes:             t.Notes,
		ExternalReference: t.ExternalReference,
		IsReconciled:      t.IsReconciled,
	})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var raw transactionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := time.Parse(DateLayoutISO, raw.Date)
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(raw.Amount)
	if err != nil {
		return err
	}
	*t = Transaction{
		ID:                raw.ID,
		BankAccountID:     raw.BankAccountID,
		Date:              date,
		Description:       raw.Description,
		Amount:            amount,
		Type:              raw.Type,
		Currency:          raw.Currency,
		Category:          raw.Category,
		Notes:             raw.Notes,
		ExternalReference: raw.ExternalReference,
		IsReconciled:      raw.IsReconciled,
	}
	return nil
}

// StringPtr returns nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
