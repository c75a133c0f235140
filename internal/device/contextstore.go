package device

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ContextStore persists the last known status per device.
//
// On startup the bridge loads stored contexts so every device presents
// a sane value immediately instead of reading zero until its first
// poll completes. Writes happen after each successful status update.
type ContextStore struct {
	db *sql.DB
}

// NewContextStore creates a store backed by an open SQLite connection.
func NewContextStore(db *sql.DB) *ContextStore {
	return &ContextStore{db: db}
}

// Save upserts the status snapshot for a device.
func (s *ContextStore) Save(ctx context.Context, dev Device, status Status) error {
	encoded, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("encoding status for %s: %w", dev.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO device_context (device_id, device_type, status, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(device_id) DO UPDATE SET
			device_type = excluded.device_type,
			status = excluded.status,
			updated_at = excluded.updated_at`,
		dev.ID, dev.Type, string(encoded), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving context for %s: %w", dev.ID, err)
	}
	return nil
}

// Load retrieves the stored status for a device.
// Returns ErrDeviceNotFound when no context has been saved.
func (s *ContextStore) Load(ctx context.Context, deviceID string) (Status, error) {
	var encoded string
	err := s.db.QueryRowContext(ctx,
		`SELECT status FROM device_context WHERE device_id = ?`,
		deviceID).Scan(&encoded)
	if errors.Is(err, sql.ErrNoRows) {
		return Status{}, ErrDeviceNotFound
	}
	if err != nil {
		return Status{}, fmt.Errorf("loading context for %s: %w", deviceID, err)
	}

	var status Status
	if err := json.Unmarshal([]byte(encoded), &status); err != nil {
		return Status{}, fmt.Errorf("decoding context for %s: %w", deviceID, err)
	}
	return status, nil
}

// Delete removes the stored context for a device.
func (s *ContextStore) Delete(ctx context.Context, deviceID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM device_context WHERE device_id = ?`, deviceID)
	if err != nil {
		return fmt.Errorf("deleting context for %s: %w", deviceID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting context for %s: %w", deviceID, err)
	}
	if rows == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// Prune removes contexts for devices no longer in configuration.
// Returns the number of rows removed.
func (s *ContextStore) Prune(ctx context.Context, keep []string) (int64, error) {
	known := make(map[string]struct{}, len(keep))
	for _, id := range keep {
		known[id] = struct{}{}
	}

	rows, err := s.db.QueryContext(ctx, `SELECT device_id FROM device_context`)
	if err != nil {
		return 0, fmt.Errorf("listing contexts: %w", err)
	}
	defer rows.Close()

	var stale []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return 0, fmt.Errorf("scanning context row: %w", err)
		}
		if _, ok := known[id]; !ok {
			stale = append(stale, id)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterating contexts: %w", err)
	}

	var removed int64
	for _, id := range stale {
		if _, err := s.db.ExecContext(ctx,
			`DELETE FROM device_context WHERE device_id = ?`, id); err != nil {
			return removed, fmt.Errorf("pruning context %s: %w", id, err)
		}
		removed++
	}
	return removed, nil
}
