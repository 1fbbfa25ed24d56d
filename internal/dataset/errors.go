package dataset

import (
	"errors"
	"fmt"
)

// Schema errors. They are always returned wrapped in a *DataSourceError.
var (
	// ErrMissingColumn is returned when a required column is absent from the header.
	ErrMissingColumn = errors.New("missing column")

	// ErrUnexpectedColumn is returned for header columns outside the schema
	// or for a column that appears twice.
	ErrUnexpectedColumn = errors.New("unexpected column")

	// ErrMalformedValue is returned when a cell cannot be parsed or a required
	// cell (Time, Class) is empty.
	ErrMalformedValue = errors.New("malformed value")

	// ErrInvalidClass is returned when Class is not 0 or 1.
	ErrInvalidClass = errors.New("invalid class label")

	// ErrNoRows is returned when the source holds a header but no transactions.
	ErrNoRows = errors.New("no rows")
)

// DataSourceError reports a failure to read or validate the transaction table.
// It is fatal: the dashboard does not render anything without a table.
type DataSourceError struct {
	Source string // file path or URI
	Op     string // open, read, parse, validate
	Err    error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("data source %s: %s: %v", e.Source, e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// sourceErr wraps err unless it already is a *DataSourceError.
func sourceErr(source, op string, err error) error {
	var dse *DataSourceError
	if errors.As(err, &dse) {
		return err
	}
	return &DataSourceError{Source: source, Op: op, Err: err}
}
