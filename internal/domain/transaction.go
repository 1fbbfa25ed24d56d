// Package domain holds the transaction record shared by the loader, the
// storage readers and the analysis views.
package domain

import (
	"fmt"
	"math"
)

// FeatureCount is the number of anonymized PCA components (V1..V28).
const FeatureCount = 28

// SecondsPerHour converts Time into hour buckets.
const SecondsPerHour = 3600

// Column names of the source table.
const (
	ColumnTime   = "Time"
	ColumnAmount = "Amount"
	ColumnClass  = "Class"

	// ColumnHour is derived from Time at load time; it is never read from a source.
	ColumnHour = "Hour"
)

// Class labels.
const (
	ClassNormal = 0
	ClassFraud  = 1
)

// Transaction is one row of the card transaction dataset.
// Missing feature or amount cells are NaN.
type Transaction struct {
	Time   float64               // seconds since the first transaction of the dataset
	V      [FeatureCount]float64 // V1..V28
	Amount float64
	Class  int
}

// FeatureColumn returns the name of feature i (0-based), e.g. "V1".
func FeatureColumn(i int) string {
	return fmt.Sprintf("V%d", i+1)
}

// Columns returns the source schema in file order: Time, V1..V28, Amount, Class.
func Columns() []string {
	cols := make([]string, 0, FeatureCount+3)
	cols = append(cols, ColumnTime)
	for i := 0; i < FeatureCount; i++ {
		cols = append(cols, FeatureColumn(i))
	}
	return append(cols, ColumnAmount, ColumnClass)
}

// Hour returns floor(Time / 3600).
func (t Transaction) Hour() int {
	return HourOf(t.Time)
}

// HourOf returns the hour bucket for a seconds-elapsed value.
func HourOf(seconds float64) int {
	return int(math.Floor(seconds / SecondsPerHour))
}

// ValidClass reports whether c is a known label.
func ValidClass(c int) bool {
	return c == ClassNormal || c == ClassFraud
}
