// Package logging builds the slog loggers used across rollcall and provides
// small helpers for consistent structured attributes. Console output is a
// compact single-line format; json output uses the standard slog JSON
// handler with normalized keys.
package logging
