package dataset

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	gcs "cloud.google.com/go/storage"

	"creditcard-eda/internal/storage"
	chstore "creditcard-eda/internal/storage/clickhouse"
	"creditcard-eda/internal/storage/memory"
	pgstore "creditcard-eda/internal/storage/postgres"
)

// Source reads the transaction table from one backend.
type Source interface {
	// Name identifies the source in errors and logs.
	Name() string

	// Load reads and validates the full table. Errors are *DataSourceError.
	Load(ctx context.Context) (*Table, error)
}

// Open selects a Source for uri:
//
//	creditcard.csv, file:///data/creditcard.csv   local CSV file
//	gs://bucket/path/creditcard.csv                CSV object in Cloud Storage
//	postgres://..., postgresql://...               transactions table in PostgreSQL
//	clickhouse://...                               transactions table in ClickHouse
func Open(uri string) (Source, error) {
	if uri == "" {
		return nil, &DataSourceError{Source: uri, Op: "open", Err: fmt.Errorf("empty data source")}
	}

	scheme, _, found := strings.Cut(uri, "://")
	if !found {
		return &FileSource{Path: uri}, nil
	}

	switch strings.ToLower(scheme) {
	case "file":
		u, err := url.Parse(uri)
		if err != nil {
			return nil, &DataSourceError{Source: uri, Op: "open", Err: err}
		}
		return &FileSource{Path: u.Path}, nil
	case "gs":
		u, err := url.Parse(uri)
		if err != nil {
			return nil, &DataSourceError{Source: uri, Op: "open", Err: err}
		}
		object := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || object == "" {
			return nil, &DataSourceError{Source: uri, Op: "open", Err: fmt.Errorf("gs uri needs bucket and object")}
		}
		return &GCSSource{Bucket: u.Host, Object: object}, nil
	case "postgres", "postgresql":
		return &PostgresSource{DSN: uri}, nil
	case "clickhouse":
		return &ClickhouseSource{DSN: uri}, nil
	default:
		return nil, &DataSourceError{Source: uri, Op: "open", Err: fmt.Errorf("unsupported scheme %q", scheme)}
	}
}

// FileSource reads a local CSV file.
type FileSource struct {
	Path string
}

func (s *FileSource) Name() string { return s.Path }

// Load opens and parses the CSV file.
func (s *FileSource) Load(_ context.Context) (*Table, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, sourceErr(s.Path, "open", err)
	}
	defer f.Close()

	return ReadCSV(s.Path, f)
}

// GCSSource streams a CSV object from Google Cloud Storage using
// application default credentials.
type GCSSource struct {
	Bucket string
	Object string
}

func (s *GCSSource) Name() string { return "gs://" + s.Bucket + "/" + s.Object }

// Load downloads and parses the object.
func (s *GCSSource) Load(ctx context.Context) (*Table, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, sourceErr(s.Name(), "open", fmt.Errorf("create storage client: %w", err))
	}
	defer client.Close()

	rc, err := client.Bucket(s.Bucket).Object(s.Object).NewReader(ctx)
	if err != nil {
		return nil, sourceErr(s.Name(), "open", fmt.Errorf("open object: %w", err))
	}
	defer rc.Close()

	return ReadCSV(s.Name(), rc)
}

// PostgresSource reads the transactions table from PostgreSQL.
type PostgresSource struct {
	DSN string
}

func (s *PostgresSource) Name() string { return redactDSN(s.DSN) }

// Load connects, reads every row and disconnects.
func (s *PostgresSource) Load(ctx context.Context) (*Table, error) {
	pool, err := pgstore.NewPool(ctx, s.DSN)
	if err != nil {
		return nil, sourceErr(s.Name(), "open", err)
	}
	defer pool.Close()

	return loadRows(ctx, s.Name(), pgstore.NewTransactionStore(pool))
}

// ClickhouseSource reads the transactions table from ClickHouse.
type ClickhouseSource struct {
	DSN string
}

func (s *ClickhouseSource) Name() string { return redactDSN(s.DSN) }

// Load connects, reads every row and disconnects.
func (s *ClickhouseSource) Load(ctx context.Context) (*Table, error) {
	conn, err := chstore.NewConn(ctx, s.DSN)
	if err != nil {
		return nil, sourceErr(s.Name(), "open", err)
	}
	defer conn.Close()

	return loadRows(ctx, s.Name(), chstore.NewTransactionStore(conn))
}

// FixtureSource serves a deterministic synthetic dataset from the in-memory store.
type FixtureSource struct {
	Rows int
	Seed uint64
}

func (s *FixtureSource) Name() string { return fmt.Sprintf("fixtures(rows=%d,seed=%d)", s.Rows, s.Seed) }

// Load generates the fixtures, stores them and reads them back.
func (s *FixtureSource) Load(ctx context.Context) (*Table, error) {
	store := memory.NewTransactionStore()
	if err := store.InsertBulk(ctx, GenerateFixtures(s.Rows, s.Seed)); err != nil {
		return nil, sourceErr(s.Name(), "read", err)
	}
	return loadRows(ctx, s.Name(), store)
}

// StoreSource reads the table from any transaction reader.
type StoreSource struct {
	Label  string
	Reader storage.TransactionReader
}

func (s *StoreSource) Name() string { return s.Label }

// Load reads every row from the reader.
func (s *StoreSource) Load(ctx context.Context) (*Table, error) {
	return loadRows(ctx, s.Label, s.Reader)
}

func loadRows(ctx context.Context, name string, reader storage.TransactionReader) (*Table, error) {
	txs, err := reader.All(ctx)
	if err != nil {
		return nil, sourceErr(name, "read", err)
	}

	table, err := NewTable(txs)
	if err != nil {
		return nil, sourceErr(name, "validate", err)
	}
	return table, nil
}

// redactDSN hides the password of a database URI.
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "<invalid dsn>"
	}
	return u.Redacted()
}
