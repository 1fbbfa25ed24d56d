package clickhouse

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"creditcard-eda/internal/domain"
	"creditcard-eda/internal/storage"
)

// TransactionStore implements storage.TransactionReader using ClickHouse.
type TransactionStore struct {
	conn *Conn
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(conn *Conn) *TransactionStore {
	return &TransactionStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TransactionReader = (*TransactionStore)(nil)

func transactionColumns() []string {
	cols := make([]string, 0, domain.FeatureCount+3)
	cols = append(cols, "time")
	for i := 0; i < domain.FeatureCount; i++ {
		cols = append(cols, strings.ToLower(domain.FeatureColumn(i)))
	}
	return append(cols, "amount", "class")
}

// All returns every transaction ordered by row_id ASC.
func (s *TransactionStore) All(ctx context.Context) ([]*domain.Transaction, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions
		ORDER BY row_id ASC
	`, strings.Join(transactionColumns(), ", "))

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

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

// Count returns the number of rows in the transactions table.
func (s *TransactionStore) Count(ctx context.Context) (int, error) {
	var n uint64
	if err := s.conn.QueryRow(ctx, `SELECT count() FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return int(n), nil
}

func scanTransaction(rows driver.Rows) (*domain.Transaction, error) {
	var (
		timeVal  float64
		features [domain.FeatureCount]*float64
		amount   *float64
		class    uint8
	)

	dest := make([]any, 0, domain.FeatureCount+3)
	dest = append(dest, &timeVal)
	for i := range features {
		dest = append(dest, &features[i])
	}
	dest = append(dest, &amount, &class)

	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scan transaction: %w", err)
	}

	tx := &domain.Transaction{
		Time:   timeVal,
		Amount: orNaN(amount),
		Class:  int(class),
	}
	for i, v := range features {
		tx.V[i] = orNaN(v)
	}
	return tx, nil
}

// orNaN maps Nullable NULL to NaN.
func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
