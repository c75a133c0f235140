package database

import (
	"context"
	"fmt"
)

// schema holds the full database schema. The cache is small enough that a
// single idempotent CREATE-IF-NOT-EXISTS script replaces versioned
// migration files.
const schema = `
CREATE TABLE IF NOT EXISTS device_context (
	device_id   TEXT PRIMARY KEY,
	device_type TEXT NOT NULL,
	status      TEXT NOT NULL,            -- JSON-encoded normalized status
	updated_at  TEXT NOT NULL             -- RFC3339 UTC
);
`

// Migrate applies the schema to the database.
//
// Safe to call on every startup: statements are idempotent.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: If schema application fails
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}
