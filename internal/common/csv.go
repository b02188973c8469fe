// Package common provides the CSV report exports shared by the commands.
package common

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
	"fjacquet/ledger-import/internal/parsererror"

	"github.com/gocarina/gocsv"
)

// RowErrorRecord is one line of a row error report.
type RowErrorRecord struct {
	Row     int    `csv:"Row"`
	Reason  string `csv:"Reason"`
	RawData string `csv:"RawData"`
}

// TransactionRecord is one line of a transaction export.
type TransactionRecord struct {
	ID                string `csv:"ID"`
	BankAccountID     string `csv:"BankAccountID"`
	Date              string `csv:"Date"`
	Description       string `csv:"Description"`
	Amount            string `csv:"Amount"`
	Type              string `csv:"Type"`
	Currency          string `csv:"Currency"`
	Category          string `csv:"Category"`
	ExternalReference string `csv:"ExternalReference"`
}

// NewRowErrorRecords flattens row errors for export. RawData is rendered as a
// JSON object so the original cells survive any delimiter.
func NewRowErrorRecords(errs []parsererror.RowError) ([]RowErrorRecord, error) {
	records := make([]RowErrorRecord, 0, len(errs))
	for _, e := range errs {
		raw, err := json.Marshal(e.RawData)
		if err != nil {
			return nil, fmt.Errorf("error encoding raw data of row %d: %w", e.Row, err)
		}
		records = append(records, RowErrorRecord{Row: e.Row, Reason: e.Reason, RawData: string(raw)})
	}
	return records, nil
}

// NewTransactionRecords flattens transactions for export.
func NewTransactionRecords(txs []models.Transaction) []TransactionRecord {
	records := make([]TransactionRecord, 0, len(txs))
	for _, t := range txs {
		records = append(records, TransactionRecord{
			ID:                t.ID,
			BankAccountID:     t.BankAccountID,
			Date:              t.Date.UTC().Format(models.DateLayoutISO),
			Description:       t.Description,
			Amount:            models.FormatAmount(t.Amount),
			Type:              string(t.Type),
			Currency:          deref(t.Currency),
			Category:          deref(t.Category),
			ExternalReference: deref(t.ExternalReference),
		})
	}
	return records
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// WriteCSV marshals records with gocsv using the given delimiter.
func WriteCSV[T any](w io.Writer, records []T, delimiter rune) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter
	if err := gocsv.MarshalCSV(records, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteRowErrorsToCSV writes the complete row error list of a rejected
// import to csvFile.
func WriteRowErrorsToCSV(errs []parsererror.RowError, csvFile string, logger logging.Logger) error {
	records, err := NewRowErrorRecords(errs)
	if err != nil {
		return err
	}
	if err := writeFile(csvFile, records, logger); err != nil {
		return err
	}
	logger.Info("Wrote row error report",
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(records)})
	return nil
}

// WriteTransactionsToCSV writes transactions to csvFile in the export layout.
func WriteTransactionsToCSV(txs []models.Transaction, csvFile string, logger logging.Logger) error {
	if txs == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}
	if err := writeFile(csvFile, NewTransactionRecords(txs), logger); err != nil {
		return err
	}
	logger.Info("Successfully wrote transactions to CSV file",
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(txs)})
	return nil
}

func writeFile[T any](csvFile string, records []T, logger logging.Logger) error {
	// Create the directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(csvFile), models.PermissionDirectory); err != nil {
		logger.WithError(err).Error("Failed to create directory")
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		logger.WithError(err).Error("Failed to create CSV file")
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	return WriteCSV(file, records, ',')
}
