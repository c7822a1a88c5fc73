package database

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_FreshDatabaseUsesCreate(t *testing.T) {
	table := &widgetsTable{}
	e, err := Open(filepath.Join(t.TempDir(), "test.db"), WithTables(table))
	require.NoError(t, err)
	defer e.Close()

	var name string
	err = e.DB().QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='widgets'").Scan(&name)
	require.NoError(t, err)
	assert.Empty(t, table.migrated, "fresh database must not step through migrations")
}

func TestMigrate_NewerDatabaseIsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	e, err := Open(path)
	require.NoError(t, err)
	_, err = e.DB().Exec(fmt.Sprintf("PRAGMA user_version = %d", LatestSchemaVersion+1))
	require.NoError(t, err)
	e.Close()

	_, err = Open(path)
	require.Error(t, err)
	assert.True(t, IsUnknownSchemaVersion(err))
}

func TestSchemaVersion(t *testing.T) {
	e := createTestEngine(t)

	version, err := e.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, LatestSchemaVersion, version)
}

func TestErrors_Helpers(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewUnknownSchemaVersionError("widgets", 99))

	assert.True(t, IsUnknownSchemaVersion(err))
	assert.False(t, IsTransactionFailure(err))
	assert.False(t, IsQueueClosed(err))
	assert.Contains(t, err.Error(), "UNKNOWN_SCHEMA_VERSION")
	assert.Contains(t, err.Error(), "version 99")
}
