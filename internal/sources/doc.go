// Package sources abstracts where raw recording files come from. The drive
// source walks a locally synced folder tree; the watcher raises a signal
// when that tree changes so the daemon can rescan without polling.
package sources
