package common_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/ledger-import/cmd/common"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadImportConfig(t *testing.T) {
	dir := t.TempDir()

	yamlFile := filepath.Join(dir, "ubs.yaml")
	require.NoError(t, os.WriteFile(yamlFile, []byte(`
bank_account_id: 4b0c5f8e-3a52-4e43-9a3e-0e1b1b7f6d21
mappings:
  date: Datum
  amount: Betrag
  description: Text
  sign_column: Soll/Haben
date_format: DD.MM.YYYY
amount_format: sign_column
skip_rows: 2
delimiter: ";"
debit_values: [S]
decimal_separator: ","
`), 0600))

	jsonFile := filepath.Join(dir, "ubs.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(`{
  "bankAccountId": "4b0c5f8e-3a52-4e43-9a3e-0e1b1b7f6d21",
  "mappings": {"date": "Datum", "amount": "Betrag", "description": "Text", "signColumn": "Soll/Haben"},
  "dateFormat": "DD.MM.YYYY",
  "amountFormat": "sign_column",
  "skipRows": 2,
  "delimiter": ";",
  "debitValues": ["S"],
  "decimalSeparator": ","
}`), 0600))

	fromYAML, err := common.LoadImportConfig(yamlFile)
	require.NoError(t, err)
	fromJSON, err := common.LoadImportConfig(jsonFile)
	require.NoError(t, err)

	assert.Equal(t, fromJSON, fromYAML)
	assert.Equal(t, models.AmountFormatSignColumn, fromYAML.AmountFormat)
	assert.Equal(t, 2, fromYAML.SkipRows)
	assert.Equal(t, "Soll/Haben", fromYAML.Mappings.SignColumn)
	assert.NoError(t, fromYAML.Validate())
}

func TestLoadImportConfig_Errors(t *testing.T) {
	_, err := common.LoadImportConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0600))
	_, err = common.LoadImportConfig(bad)
	assert.Error(t, err)
}

func TestReportImportError_RowErrors(t *testing.T) {
	rowsErr := &parsererror.RowErrorsError{Cap: 1, Errors: []parsererror.RowError{
		{Row: 1, Reason: "Invalid amount format for value 'x'", RawData: map[string]string{"Amount": "x"}},
		{Row: 3, Reason: "Missing essential data (date, amount, or description)"},
	}}
	errorsOut := filepath.Join(t.TempDir(), "errors.csv")

	var out bytes.Buffer
	require.NoError(t, common.ReportImportError(&out, rowsErr, errorsOut, logging.NewMockLogger()))

	assert.Contains(t, out.String(), "2 rows failed validation")
	assert.Contains(t, out.String(), "row 1: Invalid amount")
	assert.NotContains(t, out.String(), "row 3")
	assert.Contains(t, out.String(), "... 1 more")

	data, err := os.ReadFile(errorsOut)
	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(strings.TrimSpace(string(data)), "\n")))
}

func TestReportImportError_Other(t *testing.T) {
	var out bytes.Buffer
	err := &parsererror.MissingColumnsError{Columns: []string{"Date"}}
	require.NoError(t, common.ReportImportError(&out, err, "", logging.NewMockLogger()))
	assert.Equal(t, "Import rejected: Missing required columns in CSV: Date\n", out.String())

	out.Reset()
	require.NoError(t, common.ReportImportError(&out, errors.New("boom"), "", logging.NewMockLogger()))
	assert.Contains(t, out.String(), "boom")
}
