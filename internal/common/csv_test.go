package common

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/parsererror"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRowErrors() []parsererror.RowError {
	return []parsererror.RowError{
		{Row: 2, Reason: "Invalid amount format for value 'abc'", RawData: map[string]string{"Amount": "abc", "Desc": "Coffee; large"}},
		{Row: 5, Reason: "Missing essential data (date, amount, or description)", RawData: map[string]string{"Amount": "1"}},
	}
}

func TestWriteRowErrorsToCSV(t *testing.T) {
	logger := logging.NewMockLogger()
	csvFile := filepath.Join(t.TempDir(), "reports", "errors.csv")

	require.NoError(t, WriteRowErrorsToCSV(sampleRowErrors(), csvFile, logger))

	file, err := os.Open(csvFile)
	require.NoError(t, err)
	defer file.Close()

	var rows []RowErrorRecord
	require.NoError(t, gocsv.UnmarshalFile(file, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Row)
	assert.Equal(t, "Invalid amount format for value 'abc'", rows[0].Reason)
	assert.JSONEq(t, `{"Amount":"abc","Desc":"Coffee; large"}`, rows[0].RawData)
	assert.Equal(t, 5, rows[1].Row)

	assert.True(t, logger.HasEntry("INFO", "Wrote row error report"))
}

func TestWriteTransactionsToCSV(t *testing.T) {
	logger := logging.NewMockLogger()
	csvFile := filepath.Join(t.TempDir(), "out.csv")
	currency := "CHF"
	txs := []models.Transaction{
		{
			ID:            "id-1",
			BankAccountID: "acc",
			Date:          time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			Description:   "Groceries",
			Amount:        decimal.RequireFromString("-45.5"),
			Type:          models.TransactionTypeDebit,
			Currency:      &currency,
		},
	}

	require.NoError(t, WriteTransactionsToCSV(txs, csvFile, logger))

	data, err := os.ReadFile(csvFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ID,BankAccountID,Date,Description,Amount,Type,Currency,Category,ExternalReference", lines[0])
	assert.Equal(t, "id-1,acc,2024-02-01,Groceries,-45.50,debit,CHF,,", lines[1])
}

func TestWriteTransactionsToCSV_Nil(t *testing.T) {
	err := WriteTransactionsToCSV(nil, filepath.Join(t.TempDir(), "out.csv"), logging.NewMockLogger())
	assert.Error(t, err)
}

func TestWriteCSV_Delimiter(t *testing.T) {
	records, err := NewRowErrorRecords(sampleRowErrors()[:1])
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records, ';'))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "Row;Reason;RawData", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2;Invalid amount format for value 'abc';"))
}
