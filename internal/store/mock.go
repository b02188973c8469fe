package store

import (
	"context"
	"fmt"
	"sync"

	"fjacquet/ledger-import/internal/models"
)

// MockTransactionStore is an in-memory stand-in for TransactionStore.
type MockTransactionStore struct {
	mu           sync.Mutex
	Transactions []models.Transaction
	Calls        int

	// Error flags for testing error conditions
	BulkInsertError error
	ListError       error
}

// BulkInsert records the batch unless BulkInsertError is set.
func (m *MockTransactionStore) BulkInsert(_ context.Context, txs []models.Transaction) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.BulkInsertError != nil {
		return 0, m.BulkInsertError
	}
	m.Transactions = append(m.Transactions, txs...)
	return len(txs), nil
}

// ListByAccount filters the recorded transactions.
func (m *MockTransactionStore) ListByAccount(_ context.Context, accountID string) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	var out []models.Transaction
	for _, t := range m.Transactions {
		if t.BankAccountID == accountID {
			out = append(out, t)
		}
	}
	return out, nil
}

// MockProfileStore is an in-memory stand-in for ProfileStore.
type MockProfileStore struct {
	mu       sync.Mutex
	Profiles []models.ImportProfile

	ListError   error
	CreateError error
}

// List returns a copy of the stored profiles.
func (m *MockProfileStore) List() ([]models.ImportProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	return append([]models.ImportProfile{}, m.Profiles...), nil
}

// Get looks a profile up by name.
func (m *MockProfileStore) Get(name string) (models.ImportProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return models.ImportProfile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// Create appends a profile, enforcing unique names.
func (m *MockProfileStore) Create(p models.ImportProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	for _, existing := range m.Profiles {
		if existing.Name == p.Name {
			return fmt.Errorf("%w: %s", ErrProfileExists, p.Name)
		}
	}
	m.Profiles = append(m.Profiles, p)
	return nil
}
