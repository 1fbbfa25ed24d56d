package analysis

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"creditcard-eda/internal/dataset"
)

// DefaultPreviewRows is the number of leading rows shown in the overview.
const DefaultPreviewRows = 5

// Overview summarizes the loaded table.
type Overview struct {
	Rows       int           `json:"rows"`
	Columns    int           `json:"columns"`
	Preview    Preview       `json:"preview"`
	Missing    []ColumnCount `json:"missing"`
	Duplicates int           `json:"duplicates"`
	DTypes     []ColumnType  `json:"dtypes"`
	Derived    []string      `json:"derived_columns"`
}

// Preview is the header and formatted cells of the first rows.
type Preview struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// ColumnCount is a per-column count, in column order.
type ColumnCount struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
}

// ColumnType is the data type name of one column.
type ColumnType struct {
	Column string `json:"column"`
	DType  string `json:"dtype"`
}

// Summarize computes the overview of t. previewRows <= 0 selects
// DefaultPreviewRows.
func Summarize(t *dataset.Table, previewRows int) Overview {
	if previewRows <= 0 {
		previewRows = DefaultPreviewRows
	}
	columns := t.Columns()

	frame := previewFrame(t, previewRows)
	records := frame.Records()

	ov := Overview{
		Rows:       t.Len(),
		Columns:    len(columns),
		Preview:    Preview{Header: records[0], Rows: records[1:]},
		Missing:    missingCounts(t),
		Duplicates: DuplicateRows(t),
		Derived:    t.DerivedColumns(),
	}

	for i, typ := range frame.Types() {
		ov.DTypes = append(ov.DTypes, ColumnType{Column: columns[i], DType: dtypeName(typ)})
	}
	return ov
}

// previewFrame builds a data frame holding the first n rows of t.
func previewFrame(t *dataset.Table, n int) dataframe.DataFrame {
	if n > t.Len() {
		n = t.Len()
	}

	cols := make([]series.Series, 0, len(t.Columns()))
	for c, name := range t.Columns() {
		if t.DType(c) == "int64" {
			vals := make([]int, n)
			for r := range vals {
				vals[r] = int(t.Value(r, c))
			}
			cols = append(cols, series.New(vals, series.Int, name))
			continue
		}

		vals := make([]float64, n)
		for r := range vals {
			vals[r] = t.Value(r, c)
		}
		cols = append(cols, series.New(vals, series.Float, name))
	}
	return dataframe.New(cols...)
}

func dtypeName(t series.Type) string {
	switch t {
	case series.Int:
		return "int64"
	case series.Float:
		return "float64"
	case series.Bool:
		return "bool"
	default:
		return "object"
	}
}

func missingCounts(t *dataset.Table) []ColumnCount {
	columns := t.Columns()
	counts := make([]ColumnCount, len(columns))
	for c, name := range columns {
		n := 0
		for r := 0; r < t.Len(); r++ {
			if math.IsNaN(t.Value(r, c)) {
				n++
			}
		}
		counts[c] = ColumnCount{Column: name, Count: n}
	}
	return counts
}

// DuplicateRows counts rows identical to an earlier row across every source
// column. Missing cells compare equal to each other and -0 equals 0, so the
// count does not depend on row order.
func DuplicateRows(t *dataset.Table) int {
	width := len(t.Columns())
	buf := make([]byte, 8*width)
	seen := make(map[uint64][]int, t.Len())

	dups := 0
	for r := 0; r < t.Len(); r++ {
		for c := 0; c < width; c++ {
			binary.LittleEndian.PutUint64(buf[8*c:], cellBits(t.Value(r, c)))
		}
		h := xxhash.Sum64(buf)

		found := false
		for _, prev := range seen[h] {
			if sameRow(t, prev, r, width) {
				found = true
				break
			}
		}
		if found {
			dups++
			continue
		}
		seen[h] = append(seen[h], r)
	}
	return dups
}

// cellBits maps equal cells to equal bit patterns.
func cellBits(v float64) uint64 {
	switch {
	case math.IsNaN(v):
		return 0x7ff8000000000001
	case v == 0:
		return 0
	default:
		return math.Float64bits(v)
	}
}

func sameRow(t *dataset.Table, a, b, width int) bool {
	for c := 0; c < width; c++ {
		if cellBits(t.Value(a, c)) != cellBits(t.Value(b, c)) {
			return false
		}
	}
	return true
}
