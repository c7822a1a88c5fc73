package history

import (
	"github.com/roach88/adhistory/internal/database"
)

const tableName = "ad_history"

// Schema creates and migrates the ad_history table.
// It implements database.Table.
type Schema struct{}

// Name implements database.Table.
func (Schema) Name() string {
	return tableName
}

// Create implements database.Table.
func (Schema) Create(tx *database.Transaction) {
	createTable(tx)
}

// Migrate implements database.Table. Versions that do not change this
// table are no-ops; versions this build does not know are errors.
func (Schema) Migrate(tx *database.Transaction, toVersion int) error {
	switch toVersion {
	case 1:
		migrateToV1(tx)
		return nil
	}

	if toVersion < 1 || toVersion > database.LatestSchemaVersion {
		return database.NewUnknownSchemaVersionError(tableName, toVersion)
	}
	return nil
}

func migrateToV1(tx *database.Transaction) {
	tx.Execute("DROP TABLE IF EXISTS " + tableName)
	createTable(tx)
}

// createTable is the single definition of the latest schema. Both Create
// and the latest migration call it.
func createTable(tx *database.Transaction) {
	tx.Execute(`
		CREATE TABLE ad_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
			created_at INTEGER NOT NULL,
			type TEXT NOT NULL,
			confirmation_type TEXT NOT NULL,
			placement_id TEXT NOT NULL,
			creative_instance_id TEXT NOT NULL,
			creative_set_id TEXT NOT NULL,
			campaign_id TEXT NOT NULL,
			advertiser_id TEXT NOT NULL,
			segment TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			target_url TEXT NOT NULL
		)`)

	// GetForDateRange, GetHighestRankedPlacementsForDateRange and PurgeExpired.
	tx.Execute(database.CreateIndexSQL(tableName, "created_at"))

	// GetHighestRankedPlacementsForDateRange.
	tx.Execute(database.CreateIndexSQL(tableName, "confirmation_type"))
	tx.Execute(database.CreateIndexSQL(tableName, "placement_id"))

	// GetForCreativeInstanceID.
	tx.Execute(database.CreateIndexSQL(tableName, "creative_instance_id"))
}
