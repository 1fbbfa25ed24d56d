package dataset

import (
	"fmt"
	"math"

	"creditcard-eda/internal/domain"
)

// Column indexes into the source schema.
const (
	colTime   = 0
	colAmount = domain.FeatureCount + 1
	colClass  = domain.FeatureCount + 2
	numCols   = domain.FeatureCount + 3
)

// Table is the immutable, column-oriented transaction table. The derived Hour
// column is computed once while the table is built, so a *Table can be shared
// by concurrent readers without synchronization.
type Table struct {
	columns   [numCols][]float64
	hours     []int
	maxAmount float64
}

// NewTable validates txs and builds a table from them.
func NewTable(txs []*domain.Transaction) (*Table, error) {
	b := newBuilder(len(txs))
	for i, tx := range txs {
		if tx == nil {
			return nil, fmt.Errorf("row %d: %w", i+1, ErrMalformedValue)
		}
		if err := b.add(*tx); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return b.build()
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.hours)
}

// Columns returns the source column names in schema order.
func (t *Table) Columns() []string {
	return domain.Columns()
}

// DerivedColumns returns the names of the columns computed at load time.
func (t *Table) DerivedColumns() []string {
	return []string{domain.ColumnHour}
}

// DType returns the pandas-style data type name of source column col.
func (t *Table) DType(col int) string {
	if col == colClass {
		return "int64"
	}
	return "float64"
}

// Value returns the cell at (row, col) of the source columns. Class is
// returned as a float.
func (t *Table) Value(row, col int) float64 {
	return t.columns[col][row]
}

// Time returns the Time cell of row.
func (t *Table) Time(row int) float64 {
	return t.columns[colTime][row]
}

// Amount returns the Amount cell of row; NaN when missing.
func (t *Table) Amount(row int) float64 {
	return t.columns[colAmount][row]
}

// Class returns the label of row.
func (t *Table) Class(row int) int {
	return int(t.columns[colClass][row])
}

// Hour returns the derived hour bucket of row.
func (t *Table) Hour(row int) int {
	return t.hours[row]
}

// MaxAmount returns the largest non-missing Amount, or NaN if every amount is missing.
func (t *Table) MaxAmount() float64 {
	return t.maxAmount
}

// Row returns a copy of row i.
func (t *Table) Row(i int) domain.Transaction {
	tx := domain.Transaction{
		Time:   t.columns[colTime][i],
		Amount: t.columns[colAmount][i],
		Class:  t.Class(i),
	}
	for f := 0; f < domain.FeatureCount; f++ {
		tx.V[f] = t.columns[f+1][i]
	}
	return tx
}

// builder accumulates validated rows into columns.
type builder struct {
	columns   [numCols][]float64
	hours     []int
	maxAmount float64
}

func newBuilder(capacity int) *builder {
	b := &builder{
		hours:     make([]int, 0, capacity),
		maxAmount: math.NaN(),
	}
	for i := range b.columns {
		b.columns[i] = make([]float64, 0, capacity)
	}
	return b
}

// maxTime keeps the derived hour within int32.
const maxTime = math.MaxInt32 * domain.SecondsPerHour

// add validates and appends one transaction.
func (b *builder) add(tx domain.Transaction) error {
	if math.IsNaN(tx.Time) || tx.Time < 0 || tx.Time > maxTime {
		return fmt.Errorf("%s=%v: %w", domain.ColumnTime, tx.Time, ErrMalformedValue)
	}
	if !domain.ValidClass(tx.Class) {
		return fmt.Errorf("%s=%d: %w", domain.ColumnClass, tx.Class, ErrInvalidClass)
	}
	if math.IsInf(tx.Amount, 0) {
		return fmt.Errorf("%s=%v: %w", domain.ColumnAmount, tx.Amount, ErrMalformedValue)
	}
	for f, v := range tx.V {
		if math.IsInf(v, 0) {
			return fmt.Errorf("%s=%v: %w", domain.FeatureColumn(f), v, ErrMalformedValue)
		}
	}

	b.columns[colTime] = append(b.columns[colTime], tx.Time)
	for f, v := range tx.V {
		b.columns[f+1] = append(b.columns[f+1], v)
	}
	b.columns[colAmount] = append(b.columns[colAmount], tx.Amount)
	b.columns[colClass] = append(b.columns[colClass], float64(tx.Class))
	b.hours = append(b.hours, tx.Hour())

	if !math.IsNaN(tx.Amount) && (math.IsNaN(b.maxAmount) || tx.Amount > b.maxAmount) {
		b.maxAmount = tx.Amount
	}
	return nil
}

func (b *builder) build() (*Table, error) {
	if len(b.hours) == 0 {
		return nil, ErrNoRows
	}
	return &Table{
		columns:   b.columns,
		hours:     b.hours,
		maxAmount: b.maxAmount,
	}, nil
}
