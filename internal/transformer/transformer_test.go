package transformer

import (
	"errors"
	"testing"
	"time"

	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const account = "4b0c5f8e-3a52-4e43-9a3e-0e1b1b7f6d21"

var headers = []string{"Date", "Amount", "Desc", "Sign", "Cur", "Ref"}

func record(fields ...string) models.RawRecord {
	return models.NewRawRecord(headers, fields)
}

func config(format models.AmountFormat) models.ImportConfig {
	return models.ImportConfig{
		BankAccountID: account,
		Mappings:      models.ColumnMapping{Date: "Date", Amount: "Amount", Description: "Desc"},
		DateFormat:    "DD.MM.YYYY",
		AmountFormat:  format,
	}
}

func TestTransform(t *testing.T) {
	cfg := config(models.AmountFormatStandard)
	cfg.Mappings.Currency = "Cur"
	cfg.Mappings.Reference = "Ref"

	tx, err := New(nil).Transform(record("01.02.2024", "-45.50", "  Groceries ", "", "chf", "R-1"), 1, cfg)
	require.NoError(t, err)

	assert.Empty(t, tx.ID)
	assert.Equal(t, account, tx.BankAccountID)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), tx.Date)
	assert.Equal(t, "Groceries", tx.Description)
	assert.Equal(t, "-45.50", models.FormatAmount(tx.Amount))
	assert.Equal(t, models.TransactionTypeDebit, tx.Type)
	require.NotNil(t, tx.Currency)
	assert.Equal(t, "CHF", *tx.Currency)
	require.NotNil(t, tx.ExternalReference)
	assert.Equal(t, "R-1", *tx.ExternalReference)
	assert.Nil(t, tx.Category)
	assert.Nil(t, tx.Notes)
	assert.False(t, tx.IsReconciled)
}

func TestTransform_SignPolicies(t *testing.T) {
	tests := []struct {
		name   string
		format models.AmountFormat
		amount string
		sign   string
		want   string
		typ    models.TransactionType
	}{
		{"sign column debit", models.AmountFormatSignColumn, "100", "D", "-100.00", models.TransactionTypeDebit},
		{"sign column credit", models.AmountFormatSignColumn, "100", "C", "100.00", models.TransactionTypeCredit},
		{"negate", models.AmountFormatNegate, "-50", "", "50.00", models.TransactionTypeCredit},
		{"standard", models.AmountFormatStandard, "-50", "", "-50.00", models.TransactionTypeDebit},
		{"zero is credit", models.AmountFormatStandard, "0", "", "0.00", models.TransactionTypeCredit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config(tt.format)
			cfg.SignColumn = "Sign"

			tx, err := New(nil).Transform(record("01.02.2024", tt.amount, "x", tt.sign), 3, cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, models.FormatAmount(tx.Amount))
			assert.Equal(t, tt.typ, tx.Type)
		})
	}
}

func TestTransform_DebitVocabulary(t *testing.T) {
	cfg := config(models.AmountFormatSignColumn)
	cfg.SignColumn = "Sign"
	rec := record("01.02.2024", "10", "x", "Ausgabe")

	tx, err := New(nil).Transform(rec, 1, cfg)
	require.NoError(t, err)
	assert.True(t, tx.Amount.IsPositive())

	tx, err = New([]string{"AUSGABE"}).Transform(rec, 1, cfg)
	require.NoError(t, err)
	assert.True(t, tx.Amount.IsNegative())

	cfg.DebitValues = []string{"S"}
	tx, err = New([]string{"AUSGABE"}).Transform(rec, 1, cfg)
	require.NoError(t, err)
	assert.True(t, tx.Amount.IsPositive(), "per-import vocabulary overrides the server one")
}

func TestTransform_RowErrors(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		reason string
	}{
		{"missing date", []string{"", "1", "x"}, ReasonMissingData},
		{"missing amount", []string{"01.02.2024", " ", "x"}, ReasonMissingData},
		{"blank description", []string{"01.02.2024", "1", "   "}, ReasonMissingData},
		{"bad amount", []string{"02.02.2024", "abc", "Coffee"}, "Invalid amount format for value 'abc'"},
		{"bad date", []string{"31.04.2024", "1", "x"}, "Invalid date format for value '31.04.2024'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(nil).Transform(record(tt.fields...), 7, config(models.AmountFormatStandard))
			require.Error(t, err)

			var rowErr *parsererror.RowError
			require.True(t, errors.As(err, &rowErr))
			assert.Equal(t, 7, rowErr.Row)
			assert.Contains(t, rowErr.Reason, tt.reason)
			assert.Equal(t, tt.fields[0], rowErr.RawData["Date"])
			assert.Contains(t, rowErr.RawData, "Ref")
		})
	}
}

func TestTransform_WrapsSubErrors(t *testing.T) {
	_, err := New(nil).Transform(record("02.02.2024", "abc", "Coffee"), 2, config(models.AmountFormatStandard))

	var amountErr *parsererror.AmountParseError
	assert.True(t, errors.As(err, &amountErr))

	_, err = New(nil).Transform(record("2024-02-02", "1", "Coffee"), 2, config(models.AmountFormatStandard))
	var dateErr *parsererror.DateParseError
	assert.True(t, errors.As(err, &dateErr))
}

func TestTransform_Idempotent(t *testing.T) {
	tr := New(nil)
	cfg := config(models.AmountFormatStandard)
	rec := record("15.03.2024", "$1,234.565", "Rent", "", "", "")

	first, err1 := tr.Transform(rec, 4, cfg)
	second, err2 := tr.Transform(rec, 4, cfg)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
	assert.Equal(t, "1234.56", models.FormatAmount(first.Amount))

	_, errA := tr.Transform(record("x", "1", "y"), 4, cfg)
	_, errB := tr.Transform(record("x", "1", "y"), 4, cfg)
	assert.Equal(t, errA, errB)
}
