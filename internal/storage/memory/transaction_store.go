package memory

import (
	"context"
	"sync"

	"creditcard-eda/internal/domain"
	"creditcard-eda/internal/storage"
)

// TransactionStore is an in-memory implementation of storage.TransactionReader.
// Rows are kept in insertion order.
type TransactionStore struct {
	mu   sync.RWMutex
	data []*domain.Transaction
}

// NewTransactionStore creates a new in-memory transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{}
}

// InsertBulk appends transactions. Fails the entire batch on a nil entry.
func (s *TransactionStore) InsertBulk(_ context.Context, txs []*domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	for _, tx := range txs {
		if tx == nil {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tx := range txs {
		copy := *tx
		s.data = append(s.data, &copy)
	}
	return nil
}

// All returns copies of every transaction in insertion order.
func (s *TransactionStore) All(_ context.Context) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Transaction, 0, len(s.data))
	for _, tx := range s.data {
		copy := *tx
		result = append(result, &copy)
	}
	return result, nil
}

// Count returns the number of stored transactions.
func (s *TransactionStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data), nil
}

var _ storage.TransactionReader = (*TransactionStore)(nil)
