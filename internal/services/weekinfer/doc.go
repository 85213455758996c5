// Package weekinfer resolves which program week a session belongs to. The
// HTTP client consults the external week-resolution service; the static
// resolver falls back to the week hinted by file names and content when no
// service is configured.
package weekinfer
