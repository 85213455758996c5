package pipeline

import "time"

// Report summarizes one run. It is always produced, even when every unit
// failed.
type Report struct {
	RunID     string
	Processed int
	Succeeded int
	Failed    int
	Skipped   int
	Invalid   int
	Degraded  int
	Duration  time.Duration
}

// Clean reports whether the run finished without failures.
func (r Report) Clean() bool {
	return r.Failed == 0
}

type unitOutcome int

const (
	outcomeSucceeded unitOutcome = iota
	outcomeFailed
	outcomeSkipped
)

type unitResult struct {
	outcome  unitOutcome
	degraded bool
	err      error
}
