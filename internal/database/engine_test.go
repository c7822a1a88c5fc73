package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/adhistory/internal/telemetry"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	e, err := Open(path)
	require.NoError(t, err)
	defer e.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/test.db")
	assert.Error(t, err)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		e, err := Open(path, WithTables(&widgetsTable{}))
		require.NoError(t, err, "Open() iteration %d", i)
		e.Close()
	}

	e, err := Open(path, WithTables(&widgetsTable{}))
	require.NoError(t, err)
	defer e.Close()

	version, err := e.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, LatestSchemaVersion, version)
}

func TestClose_NilDB(t *testing.T) {
	e := &Engine{}
	assert.NoError(t, e.Close())
}

func TestPragmas(t *testing.T) {
	e := createTestEngine(t)

	tests := []struct {
		name     string
		expected string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"}, // NORMAL
		{"busy_timeout", "5000"},
		{"foreign_keys", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, e.verifyPragma(tt.name, tt.expected))
		})
	}
}

func TestExecute_RunAndStep(t *testing.T) {
	e := createTestEngine(t)
	ctx := context.Background()

	tx := &Transaction{}
	tx.Add(insertWidget("a", 1))
	tx.Add(insertWidget("b", 2))
	tx.Add(selectWidgets())

	result, err := e.Execute(ctx, tx)
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)

	assert.Equal(t, "a", result.Rows[0].ColumnString(0))
	assert.Equal(t, int64(1), result.Rows[0].ColumnInt64(1))
	assert.Equal(t, "b", result.Rows[1].ColumnString(0))
	assert.Equal(t, int64(2), result.Rows[1].ColumnInt64(1))
}

func TestExecute_EmptyReadIsNotNil(t *testing.T) {
	e := createTestEngine(t)

	tx := &Transaction{}
	tx.Add(selectWidgets())

	result, err := e.Execute(context.Background(), tx)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotNil(t, result.Rows)
	assert.Empty(t, result.Rows)
}

func TestExecute_EmptyTransactionCommits(t *testing.T) {
	e := createTestEngine(t)

	result, err := e.Execute(context.Background(), &Transaction{})
	require.NoError(t, err)
	assert.Empty(t, result.Rows)
}

func TestExecute_FailureRollsBackWholeTransaction(t *testing.T) {
	e := createTestEngine(t)
	ctx := context.Background()

	tx := &Transaction{}
	tx.Add(insertWidget("a", 1))
	tx.Execute("INSERT INTO no_such_table VALUES (1)")

	result, err := e.Execute(ctx, tx)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsTransactionFailure(err))

	var count int
	require.NoError(t, e.DB().QueryRow("SELECT COUNT(*) FROM widgets").Scan(&count))
	assert.Equal(t, 0, count, "first insert must be rolled back")
}

func TestExecute_ColumnTypeMismatch(t *testing.T) {
	e := createTestEngine(t)

	tx := &Transaction{}
	tx.Add(Statement{
		Kind:        KindStep,
		SQL:         "SELECT name, size FROM widgets",
		ColumnTypes: []ColumnType{ColumnString},
	})

	_, err := e.Execute(context.Background(), tx)
	require.Error(t, err)
	assert.True(t, IsTransactionFailure(err))
}

func TestExecute_NilTransactionPanics(t *testing.T) {
	e := createTestEngine(t)
	assert.Panics(t, func() {
		_, _ = e.Execute(context.Background(), nil)
	})
}

func TestExecute_RecordsMetrics(t *testing.T) {
	m, err := telemetry.New(prometheus.NewRegistry())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "test.db")
	e, err := Open(path, WithTables(&widgetsTable{}), WithMetrics(m))
	require.NoError(t, err)
	defer e.Close()

	// Open ran one migration transaction.
	base := testutil.ToFloat64(m.Transactions.WithLabelValues(telemetry.OutcomeCommitted))

	tx := &Transaction{}
	tx.Add(insertWidget("a", 1))
	_, err = e.Execute(context.Background(), tx)
	require.NoError(t, err)

	bad := &Transaction{}
	bad.Execute("NOT SQL")
	_, err = e.Execute(context.Background(), bad)
	require.Error(t, err)

	assert.Equal(t, base+1, testutil.ToFloat64(m.Transactions.WithLabelValues(telemetry.OutcomeCommitted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transactions.WithLabelValues(telemetry.OutcomeRolledBack)))
}
