package clickhouse

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"creditcard-eda/internal/domain"
)

// setupTestDB creates a ClickHouse container and returns a connection.
// Returns a cleanup function that must be called when done.
func setupTestDB(t *testing.T) (*Conn, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "clickhouse/clickhouse-server:24.1-alpine",
		ExposedPorts: []string{"9000/tcp", "8123/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForLog("Application: Ready for connections").
				WithStartupTimeout(60*time.Second),
			wait.ForListeningPort("9000/tcp"),
		),
		Env: map[string]string{
			"CLICKHOUSE_DB":       "test",
			"CLICKHOUSE_USER":     "default",
			"CLICKHOUSE_PASSWORD": "",
		},
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "9000")
	require.NoError(t, err)

	conn, err := NewConn(ctx, fmt.Sprintf("clickhouse://%s:%s/test", host, port.Port()))
	require.NoError(t, err)

	runMigrations(t, conn)

	cleanup := func() {
		conn.Close()
		_ = container.Terminate(ctx)
	}

	return conn, cleanup
}

// runMigrations applies the transactions DDL from the migrations package.
func runMigrations(t *testing.T, conn *Conn) {
	t.Helper()

	path := filepath.Join("..", "migrations", "clickhouse", "001_transactions.sql")
	content, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read migration %s", path)

	// single statement; strip the trailing semicolon for the native driver
	stmt := string(content)
	for len(stmt) > 0 && (stmt[len(stmt)-1] == '\n' || stmt[len(stmt)-1] == ';') {
		stmt = stmt[:len(stmt)-1]
	}

	err = conn.Exec(context.Background(), stmt)
	require.NoError(t, err, "failed to apply migration")
}

// seedTransactions inserts rows with row_id equal to their slice index.
func seedTransactions(t *testing.T, conn *Conn, txs []*domain.Transaction) {
	t.Helper()
	ctx := context.Background()

	batch, err := conn.PrepareBatch(ctx, `INSERT INTO transactions`)
	require.NoError(t, err)

	for i, tx := range txs {
		args := make([]any, 0, domain.FeatureCount+4)
		args = append(args, uint64(i), tx.Time)
		for _, v := range tx.V {
			args = append(args, nullable(v))
		}
		args = append(args, nullable(tx.Amount), uint8(tx.Class))
		require.NoError(t, batch.Append(args...))
	}

	require.NoError(t, batch.Send())
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
