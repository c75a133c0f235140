// Package database provides SQLite connectivity for the switchbridge
// device context cache.
//
// The bridge persists each device's last-known normalized status so a
// restart republishes sensible values immediately instead of blank
// characteristics until the first poll completes. This is a cache, not a
// source of truth: the physical device always wins on the next refresh.
//
// The package wraps database/sql with WAL mode, busy-timeout pragmas,
// single-writer pool settings appropriate for SQLite, and an idempotent
// schema migration.
package database
