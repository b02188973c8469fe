package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/ledger-import/internal/importer"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/parsererror"
	"fjacquet/ledger-import/internal/store"
	"fjacquet/ledger-import/internal/transformer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const account = "4b0c5f8e-3a52-4e43-9a3e-0e1b1b7f6d21"

func config() models.ImportConfig {
	return models.ImportConfig{
		BankAccountID: account,
		Mappings:      models.ColumnMapping{Date: "Date", Amount: "Amount", Description: "Desc"},
		DateFormat:    "YYYY-MM-DD",
		AmountFormat:  models.AmountFormatStandard,
	}
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
}

func TestListCSVFiles(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "b.csv", "")
	write(t, dir, "a.CSV", "")
	write(t, dir, "notes.txt", "")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0750))

	files, err := ListCSVFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.CSV"), filepath.Join(dir, "b.csv")}, files)

	_, err = ListCSVFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestImportDirectory(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "01-jan.csv", "Date,Amount,Desc\n2024-01-05,-10.00,Lunch\n2024-01-06,20,Refund\n")
	write(t, dir, "02-feb.csv", "Date,Amount,Desc\n2024-02-05,oops,Lunch\n")
	write(t, dir, "03-mar.csv", "Date,Amount,Desc\n2024-03-05,3.33,Tram\n")

	txStore := &store.MockTransactionStore{}
	log := logging.NewMockLogger()
	imp := importer.New(txStore, transformer.New(nil), importer.Options{}, log)

	summary, err := NewBatchImporter(imp, log).ImportDirectory(context.Background(), dir, config())
	require.NoError(t, err)

	require.Len(t, summary.Results, 3)
	assert.Equal(t, 3, summary.Imported())
	failed := summary.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, filepath.Join(dir, "02-feb.csv"), failed[0].File)
	var rowsErr *parsererror.RowErrorsError
	assert.ErrorAs(t, failed[0].Err, &rowsErr)

	assert.Equal(t, 2, txStore.Calls)
	assert.Len(t, txStore.Transactions, 3)
	assert.True(t, log.HasEntry("INFO", "Batch import completed"))
}

func TestImportDirectory_Empty(t *testing.T) {
	log := logging.NewMockLogger()
	imp := importer.New(&store.MockTransactionStore{}, transformer.New(nil), importer.Options{}, log)

	summary, err := NewBatchImporter(imp, log).ImportDirectory(context.Background(), t.TempDir(), config())
	require.NoError(t, err)
	assert.Empty(t, summary.Results)
	assert.True(t, log.HasEntry("WARN", "No CSV files found in input directory"))
}

func TestImportDirectory_Cancelled(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.csv", "Date,Amount,Desc\n2024-01-05,1,x\n")
	txStore := &store.MockTransactionStore{}
	log := logging.NewMockLogger()
	imp := importer.New(txStore, transformer.New(nil), importer.Options{}, log)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewBatchImporter(imp, log).ImportDirectory(ctx, dir, config())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, txStore.Calls)
}
