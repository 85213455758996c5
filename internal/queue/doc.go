// Package queue persists processed session records and per-session
// checkpoints in SQLite. The record table is the dedup index: its
// fingerprint column carries a UNIQUE constraint, so the database is the
// final arbiter when two workers race on the same session.
package queue
