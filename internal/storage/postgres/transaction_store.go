package postgres

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/jackc/pgx/v5"

	"creditcard-eda/internal/domain"
	"creditcard-eda/internal/storage"
)

// TransactionStore implements storage.TransactionReader using PostgreSQL.
type TransactionStore struct {
	pool *Pool
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(pool *Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TransactionReader = (*TransactionStore)(nil)

// selectColumns lists the transactions columns in source order.
func selectColumns() string {
	cols := make([]string, 0, domain.FeatureCount+3)
	cols = append(cols, "time")
	for i := 0; i < domain.FeatureCount; i++ {
		cols = append(cols, strings.ToLower(domain.FeatureColumn(i)))
	}
	cols = append(cols, "amount", "class")
	return strings.Join(cols, ", ")
}

// All returns every transaction ordered by row_id ASC.
func (s *TransactionStore) All(ctx context.Context) ([]*domain.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions ORDER BY row_id ASC`, selectColumns())

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// Count returns the number of rows in the transactions table.
func (s *TransactionStore) Count(ctx context.Context) (int, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return int(n), nil
}

func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var result []*domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return result, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		timeVal  *float64
		features [domain.FeatureCount]*float64
		amount   *float64
		class    *int16
	)

	dest := make([]any, 0, domain.FeatureCount+3)
	dest = append(dest, &timeVal)
	for i := range features {
		dest = append(dest, &features[i])
	}
	dest = append(dest, &amount, &class)

	if err := row.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scan transaction: %w", err)
	}

	if timeVal == nil || class == nil {
		return nil, storage.ErrNullValue
	}

	tx := &domain.Transaction{
		Time:   *timeVal,
		Amount: orNaN(amount),
		Class:  int(*class),
	}
	for i, v := range features {
		tx.V[i] = orNaN(v)
	}
	return tx, nil
}

// orNaN maps SQL NULL to NaN.
func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
