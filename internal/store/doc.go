// Package store provides SQLite-backed archiving of simulation runs.
//
// Two tables: runs (one row per finished simulation) and alerts (the
// kanban alerts that run raised). Writes are idempotent via
// ON CONFLICT DO NOTHING, so re-archiving a run with the same token is
// a no-op. Queries order by created_at then id for deterministic
// listings.
//
// The store is consumed only by the CLI; the simulation engine has no
// dependency on it.
package store
