package dataset

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"creditcard-eda/internal/observability"
)

// Loader reads the table from its source at most once and hands the same
// immutable *Table to every caller afterwards.
type Loader struct {
	source Source
	logger zerolog.Logger

	once  sync.Once
	table *Table
	err   error
}

// NewLoader creates a loader for source.
func NewLoader(source Source, logger zerolog.Logger) *Loader {
	return &Loader{
		source: source,
		logger: logger.With().Str("component", "dataset").Str("source", source.Name()).Logger(),
	}
}

// Load returns the table, reading it on the first call. A failed first read
// is remembered; later calls return the same error without retrying.
func (l *Loader) Load(ctx context.Context) (*Table, error) {
	l.once.Do(func() {
		start := time.Now()
		l.logger.Info().Msg("loading dataset")

		table, err := l.source.Load(ctx)
		if err != nil {
			l.err = sourceErr(l.source.Name(), "read", err)
			var dse *DataSourceError
			if errors.As(l.err, &dse) {
				observability.RecordDatasetLoadError(dse.Op)
			}
			l.logger.Error().Err(l.err).Msg("dataset load failed")
			return
		}

		elapsed := time.Since(start)
		l.table = table
		observability.RecordDatasetLoaded(table.Len(), len(table.Columns()), elapsed.Seconds())
		l.logger.Info().
			Int("rows", table.Len()).
			Int("columns", len(table.Columns())).
			Dur("elapsed", elapsed).
			Msg("dataset loaded")
	})
	return l.table, l.err
}
