// Package pipeline orchestrates a processing run: scan the source, cluster
// files into sessions, resolve identities, categorize, dedup, transfer, and
// append records. Sessions are independent units handled by a bounded worker
// pool; inside a unit the stages run strictly in order.
package pipeline
