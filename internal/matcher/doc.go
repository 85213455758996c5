// Package matcher clusters a flat list of scanned recording files into
// sessions. Matching is a single greedy sweep: each unassigned file seeds a
// session and every remaining unassigned file joins when its weighted
// similarity against the seed reaches the threshold.
//
// The weighted rules are pure functions over pairs of raw files, so the sweep
// is deterministic for a given input order and the output sessions partition
// the input exactly.
package matcher
