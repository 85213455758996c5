// Package services holds the shared plumbing for rollcall's external
// collaborators: the sentinel error taxonomy used for failure
// classification, the retry helper for transient faults, and the context
// keys that thread correlation identifiers through the pipeline.
package services
