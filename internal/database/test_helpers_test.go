package database

import (
	"path/filepath"
	"testing"
)

// widgetsTable is a minimal Table used to exercise the engine.
type widgetsTable struct {
	migrated []int
}

func (w *widgetsTable) Name() string { return "widgets" }

func (w *widgetsTable) Create(tx *Transaction) {
	tx.Execute("CREATE TABLE widgets (id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL, name TEXT NOT NULL, size INTEGER NOT NULL)")
}

func (w *widgetsTable) Migrate(tx *Transaction, toVersion int) error {
	if toVersion < 1 || toVersion > LatestSchemaVersion {
		return NewUnknownSchemaVersionError(w.Name(), toVersion)
	}
	w.migrated = append(w.migrated, toVersion)
	return nil
}

// createTestEngine opens an engine on a temp file with the widgets table.
func createTestEngine(t *testing.T) *Engine {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	e, err := Open(path, WithTables(&widgetsTable{}))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

func insertWidget(name string, size int64) Statement {
	stmt := Statement{Kind: KindRun, SQL: "INSERT INTO widgets (name, size) VALUES (?, ?)"}
	stmt.BindString(name)
	stmt.BindInt64(size)
	return stmt
}

func selectWidgets() Statement {
	return Statement{
		Kind:        KindStep,
		SQL:         "SELECT name, size FROM widgets ORDER BY id ASC",
		ColumnTypes: []ColumnType{ColumnString, ColumnInt64},
	}
}
