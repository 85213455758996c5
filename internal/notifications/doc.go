// Package notifications pushes run events to ntfy. When no topic is
// configured a noop implementation is returned, so callers never need to
// nil-check their notifier.
package notifications
