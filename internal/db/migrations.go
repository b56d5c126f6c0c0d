package db

import (
	"database/sql"
	"fmt"
)

// migrations run in order after the base schema. Every entry has to be
// idempotent because the whole list replays on each start.
var migrations = []string{
	// Partial index backing the reservation sum over unreceived transfer
	// lines, evaluated on every line add and edit.
	`CREATE INDEX IF NOT EXISTS idx_transfer_batches_batch
	     ON transfer_batches(product_batch_id) WHERE quantity_received = 0`,
}

// Migrate brings the database to the current schema: base schema first,
// then the migration list.
func Migrate(database *sql.DB) error {
	if err := EnsureSchema(database); err != nil {
		return err
	}
	for i, stmt := range migrations {
		if _, err := database.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
