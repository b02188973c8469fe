package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"

	"github.com/shopspring/decimal"
)

// TransactionStore is the SQLite-backed storage collaborator of the import
// orchestrator.
type TransactionStore struct {
	db     *sql.DB
	logger logging.Logger
}

// NewTransactionStore migrates the database at path and opens it.
func NewTransactionStore(path string, logger logging.Logger) (*TransactionStore, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if err := RunMigrations(path); err != nil {
		return nil, err
	}
	db, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	logger.Debug("Opened transaction store", logging.Field{Key: logging.FieldFile, Value: path})
	return &TransactionStore{db: db, logger: logger}, nil
}

// Close releases the database handle.
func (s *TransactionStore) Close() error {
	return s.db.Close()
}

// BulkInsert writes every transaction in a single SQL transaction. On any
// failure nothing is written and the driver error is returned.
func (s *TransactionStore) BulkInsert(ctx context.Context, txs []models.Transaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}

	err := WithTx(s.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions(
		 id, bank_account_id, date, description, amount, type,
		 currency, category, notes, external_reference, is_reconciled)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, t := range txs {
			if _, err := stmt.ExecContext(ctx,
				t.ID, t.BankAccountID, t.Date.UTC().Format(models.DateLayoutISO), t.Description,
				models.FormatAmount(t.Amount), string(t.Type),
				t.Currency, t.Category, t.Notes, t.ExternalReference, t.IsReconciled); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Debug("Inserted transactions", logging.Field{Key: logging.FieldCount, Value: len(txs)})
	return len(txs), nil
}

// ListByAccount returns the transactions of one account, newest first.
func (s *TransactionStore) ListByAccount(ctx context.Context, accountID string) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, bank_account_id, date, description, amount, type,
	       currency, category, notes, external_reference, is_reconciled
	FROM transactions
	WHERE bank_account_id = ?
	ORDER BY date DESC, rowid ASC;
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var t models.Transaction
		var date, amount, typ string
		var currency, category, notes, extRef sql.NullString
		if err := rows.Scan(&t.ID, &t.BankAccountID, &date, &t.Description, &amount, &typ,
			&currency, &category, &notes, &extRef, &t.IsReconciled); err != nil {
			return nil, err
		}
		if t.Date, err = time.Parse(models.DateLayoutISO, date); err != nil {
			return nil, fmt.Errorf("invalid stored date %q: %w", date, err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
		}
		t.Type = models.TransactionType(typ)
		t.Currency = nullable(currency)
		t.Category = nullable(category)
		t.Notes = nullable(notes)
		t.ExternalReference = nullable(extRef)
		out = append(out, t)
	}
	return out, rows.Err()
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
