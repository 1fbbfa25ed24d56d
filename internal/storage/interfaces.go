package storage

import (
	"context"

	"creditcard-eda/internal/domain"
)

// TransactionReader provides read access to a transactions table.
// Readers never modify the underlying data.
type TransactionReader interface {
	// All returns every transaction in source order (row_id ASC).
	All(ctx context.Context) ([]*domain.Transaction, error)

	// Count returns the number of stored transactions.
	Count(ctx context.Context) (int, error)
}
