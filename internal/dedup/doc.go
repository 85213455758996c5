// Package dedup derives the stable fingerprint that guarantees at-most-once
// recording of a session, and the gate that checks it against the persisted
// index before any write.
//
// The fingerprint hashes a normalized tuple (session discriminator, UTC start
// time, total byte size), so the same physical recording reprocessed through
// any entry point hashes identically as long as those inputs are stable. The
// gate is best-effort under concurrency: two workers racing on the same
// fingerprint are not serialized here.
package dedup
