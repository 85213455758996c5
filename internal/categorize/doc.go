// Package categorize maps a resolved session identity to its final category.
//
// The mapping is a deterministic ordered rule table; the first matching rule
// wins. The order is load-bearing: the administrative-account rule must run
// before the coach-alone rule or shared admin hosts would be filed as
// Coaching. Do not reorder casually.
package categorize
