// Package transformer converts one raw CSV record into a normalized
// transaction candidate, or a row error describing why it cannot.
package transformer

import (
	"strings"

	"fjacquet/ledger-import/internal/currencyutils"
	"fjacquet/ledger-import/internal/dateutils"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/parsererror"
)

// ReasonMissingData is the row error reason for an empty date, amount or
// description cell.
const ReasonMissingData = "Missing essential data (date, amount, or description)"

// Transformer is a pure row mapper. It carries the server-wide debit
// vocabulary; a non-empty ImportConfig.DebitValues overrides it per import.
type Transformer struct {
	debitValues []string
}

// New creates a Transformer. An empty vocabulary means
// models.DefaultDebitValues.
func New(debitValues []string) *Transformer {
	if len(debitValues) == 0 {
		debitValues = models.DefaultDebitValues
	}
	return &Transformer{debitValues: append([]string(nil), debitValues...)}
}

// Transform maps rec to a transaction for cfg.BankAccountID. rowIndex is the
// 1-based row number reported on failure. The returned transaction has no
// ID. Every failure is a *parsererror.RowError carrying the raw record.
func (t *Transformer) Transform(rec models.RawRecord, rowIndex int, cfg models.ImportConfig) (models.Transaction, error) {
	m := cfg.Mappings
	dateCell := rec.Get(m.Date)
	amountCell := rec.Get(m.Amount)
	description := strings.TrimSpace(rec.Get(m.Description).Raw)

	if dateCell.IsEmpty() || amountCell.IsEmpty() || description == "" {
		return models.Transaction{}, rowError(rec, rowIndex, ReasonMissingData, nil)
	}

	date, err := dateutils.ParseWithTemplate(dateCell.Raw, cfg.DateFormat)
	if err != nil {
		return models.Transaction{}, rowError(rec, rowIndex, err.Error(), err)
	}

	debitValues := t.debitValues
	if len(cfg.DebitValues) > 0 {
		debitValues = cfg.DebitValues
	}
	amount, err := currencyutils.NormalizeAmount(amountCell, currencyutils.AmountOptions{
		Format:       cfg.AmountFormat,
		Sign:         rec.Get(cfg.SignColumnName()),
		DebitValues:  debitValues,
		DecimalComma: cfg.DecimalComma(),
	})
	if err != nil {
		return models.Transaction{}, rowError(rec, rowIndex, err.Error(), err)
	}

	return models.Transaction{
		BankAccountID:     cfg.BankAccountID,
		Date:              date,
		Description:       description,
		Amount:            amount,
		Type:              models.TypeForAmount(amount),
		Currency:          models.StringPtr(strings.ToUpper(optional(rec, m.Currency))),
		Category:          models.StringPtr(optional(rec, m.Category)),
		ExternalReference: models.StringPtr(optional(rec, m.Reference)),
	}, nil
}

func optional(rec models.RawRecord, column string) string {
	if column == "" {
		return ""
	}
	return rec.Get(column).Raw
}

func rowError(rec models.RawRecord, rowIndex int, reason string, cause error) *parsererror.RowError {
	return &parsererror.RowError{
		Row:     rowIndex,
		Reason:  reason,
		RawData: rec.RawMap(),
		Err:     cause,
	}
}
