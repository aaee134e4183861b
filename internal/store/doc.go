// Package store persists projects, jobs, and media in SQLite.
//
// The store is the single source of truth for job state. Producers insert
// queued jobs; only the worker loop moves a job through running to done or
// error. Lookups return (nil, nil) when a record does not exist so callers can
// treat a concurrently deleted job as a silent no-op.
//
// Writes go through a small SQLITE_BUSY retry wrapper and the connection runs
// with WAL, foreign keys, and a busy timeout so the CLI can read while the
// daemon writes.
package store
