package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"creditcard-eda/internal/domain"
)

// missingTokens are the cell values read as missing (NaN), after trimming.
var missingTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"NaN":  {},
	"nan":  {},
	"NULL": {},
	"null": {},
}

// ReadCSV parses a comma-separated transaction table with a header row.
// The header must contain exactly the schema columns (any order). Errors are
// returned as *DataSourceError naming source.
func ReadCSV(source string, r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, sourceErr(source, "validate", ErrNoRows)
	}
	if err != nil {
		return nil, sourceErr(source, "read", err)
	}

	index, err := mapHeader(header)
	if err != nil {
		return nil, sourceErr(source, "validate", err)
	}

	b := newBuilder(0)
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, sourceErr(source, "read", err)
		}

		tx, err := parseRecord(record, index)
		if err != nil {
			return nil, sourceErr(source, "parse", fmt.Errorf("line %d: %w", line, err))
		}
		if err := b.add(tx); err != nil {
			return nil, sourceErr(source, "validate", fmt.Errorf("line %d: %w", line, err))
		}
	}

	table, err := b.build()
	if err != nil {
		return nil, sourceErr(source, "validate", err)
	}
	return table, nil
}

// mapHeader returns, for each schema column, its position in the record.
func mapHeader(header []string) ([numCols]int, error) {
	var index [numCols]int
	for i := range index {
		index[i] = -1
	}

	schema := make(map[string]int, numCols)
	for i, name := range domain.Columns() {
		schema[name] = i
	}

	for pos, raw := range header {
		name := strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff"))
		col, ok := schema[name]
		if !ok {
			return index, fmt.Errorf("%q: %w", name, ErrUnexpectedColumn)
		}
		if index[col] != -1 {
			return index, fmt.Errorf("%q appears twice: %w", name, ErrUnexpectedColumn)
		}
		index[col] = pos
	}

	var missing []string
	for col, pos := range index {
		if pos == -1 {
			missing = append(missing, domain.Columns()[col])
		}
	}
	if len(missing) > 0 {
		return index, fmt.Errorf("%s: %w", strings.Join(missing, ", "), ErrMissingColumn)
	}

	return index, nil
}

func parseRecord(record []string, index [numCols]int) (domain.Transaction, error) {
	var tx domain.Transaction

	timeVal, err := parseFloat(record[index[colTime]])
	if err != nil {
		return tx, fmt.Errorf("%s: %w", domain.ColumnTime, err)
	}
	if math.IsNaN(timeVal) {
		return tx, fmt.Errorf("%s is empty: %w", domain.ColumnTime, ErrMalformedValue)
	}
	tx.Time = timeVal

	for f := 0; f < domain.FeatureCount; f++ {
		v, err := parseFloat(record[index[f+1]])
		if err != nil {
			return tx, fmt.Errorf("%s: %w", domain.FeatureColumn(f), err)
		}
		tx.V[f] = v
	}

	amount, err := parseFloat(record[index[colAmount]])
	if err != nil {
		return tx, fmt.Errorf("%s: %w", domain.ColumnAmount, err)
	}
	tx.Amount = amount

	raw := strings.TrimSpace(record[index[colClass]])
	class, err := strconv.Atoi(raw)
	if err != nil {
		return tx, fmt.Errorf("%s=%q: %w", domain.ColumnClass, raw, ErrMalformedValue)
	}
	tx.Class = class

	return tx, nil
}

// parseFloat parses a numeric cell; missing tokens yield NaN and infinite
// values are rejected.
func parseFloat(cell string) (float64, error) {
	s := strings.TrimSpace(cell)
	if _, ok := missingTokens[s]; ok {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q: %w", s, ErrMalformedValue)
	}
	return v, nil
}
