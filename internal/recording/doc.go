// Package recording defines the raw file model produced by folder scans and
// the filename heuristics that mine identity hints (timestamp tokens, calendar
// dates, week markers, participant names) out of provider naming conventions.
//
// RawFile values are immutable after a scan; every downstream component reads
// them and derives its own state.
package recording
