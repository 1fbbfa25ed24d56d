package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"creditcard-eda/internal/dataset"
	"creditcard-eda/internal/domain"
)

func tx(time, amount float64, class int) *domain.Transaction {
	return &domain.Transaction{Time: time, Amount: amount, Class: class}
}

func mustTable(t *testing.T, txs ...*domain.Transaction) *dataset.Table {
	t.Helper()
	table, err := dataset.NewTable(txs)
	require.NoError(t, err)
	return table
}

// sampleTable is the three-row table used across the view tests.
func sampleTable(t *testing.T) *dataset.Table {
	return mustTable(t,
		tx(0, 5, 0),
		tx(3600, 600, 1),
		tx(7200, 5, 0),
	)
}

func fixtureTable(t *testing.T, rows int) *dataset.Table {
	t.Helper()
	table, err := dataset.NewTable(dataset.GenerateFixtures(rows, 11))
	require.NoError(t, err)
	return table
}
