package dedup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"rollcall/internal/matcher"
	"rollcall/internal/textutil"
)

// Fingerprint derives the stable dedup key for a session. The discriminator
// is sanitized and the start time normalized to UTC RFC3339 so cosmetic
// differences between entry points cannot change the hash.
func Fingerprint(session matcher.Session) string {
	return FingerprintTuple(session.Metadata.Discriminator, session.Metadata.StartTime, session.Metadata.TotalSize)
}

// FingerprintTuple hashes the normalized (discriminator, start, size) tuple.
func FingerprintTuple(discriminator string, start time.Time, totalSize int64) string {
	normalized := fmt.Sprintf("%s|%s|%d",
		textutil.SanitizeToken(strings.ToLower(discriminator)),
		start.UTC().Format(time.RFC3339),
		totalSize,
	)
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// Index is the narrow view of the persisted record store the gate needs.
type Index interface {
	RecordExists(ctx context.Context, fingerprint string) (bool, error)
}

// Gate answers whether a fingerprint has already been recorded.
type Gate struct {
	index Index
}

// NewGate wraps a persisted index.
func NewGate(index Index) *Gate {
	return &Gate{index: index}
}

// IsDuplicate checks the index immediately before a write. A hit means the
// session was already recorded and processing short-circuits as skipped.
func (g *Gate) IsDuplicate(ctx context.Context, fingerprint string) (bool, error) {
	if g == nil || g.index == nil {
		return false, nil
	}
	return g.index.RecordExists(ctx, fingerprint)
}
