package database

import (
	"context"
	"fmt"
)

// Schema version tracking:
// 0 - Empty database
// 1 - ad_history table with created_at, confirmation_type, placement_id
//     and creative_instance_id indexes
const LatestSchemaVersion = 1

// Table owns the schema of one table.
//
// Create and Migrate append statements to tx; the engine executes them.
// Migrate must leave the table exactly as Create would at the same
// version, so implementations should share one schema function between
// the two.
type Table interface {
	Name() string
	Create(tx *Transaction)
	Migrate(tx *Transaction, toVersion int) error
}

// SchemaVersion returns the database's PRAGMA user_version.
func (e *Engine) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := e.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("get user_version: %w", err)
	}
	return version, nil
}

// migrate brings the registered tables to LatestSchemaVersion in a single
// transaction. A fresh database is created directly at the latest version;
// an older one is stepped through every intermediate version.
func (e *Engine) migrate(ctx context.Context) error {
	version, err := e.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	if version > LatestSchemaVersion {
		return &Error{
			Code: ErrCodeUnknownSchemaVersion,
			Op:   fmt.Sprintf("open database at version %d, latest known is %d", version, LatestSchemaVersion),
		}
	}
	if version == LatestSchemaVersion {
		return nil
	}

	tx := &Transaction{}
	if version == 0 {
		for _, t := range e.tables {
			t.Create(tx)
		}
	} else {
		for v := version + 1; v <= LatestSchemaVersion; v++ {
			for _, t := range e.tables {
				if err := t.Migrate(tx, v); err != nil {
					return fmt.Errorf("migrate %s: %w", t.Name(), err)
				}
			}
		}
	}
	// PRAGMA does not accept bind values.
	tx.Execute(fmt.Sprintf("PRAGMA user_version = %d", LatestSchemaVersion))

	if _, err := e.Execute(ctx, tx); err != nil {
		return err
	}

	e.logger.InfoContext(ctx, "database migrated", "from_version", version, "to_version", LatestSchemaVersion)
	return nil
}
