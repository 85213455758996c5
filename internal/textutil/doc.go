// Package textutil provides text processing utilities for similarity scoring
// and recording-name normalization.
//
// The primary use cases are:
//   - Computing Levenshtein similarity between normalized recording base names
//   - Stripping provider suffixes (resolution, role, duplicate markers) from
//     file names so sibling recordings compare equal
//   - Sanitizing free-text tokens for stable fingerprint input
package textutil
