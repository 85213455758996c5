package queue

import "time"

// Record is one processed session as persisted in the index.
type Record struct {
	ID                int64
	Fingerprint       string
	SessionID         string
	Coach             string
	Student           string
	Week              int
	Category          string
	SessionType       string
	Confidence        int
	StartTime         time.Time
	TotalSize         int64
	FileCount         int
	StagedPath        string
	Degraded          bool
	ProcessingVersion string
	Evidence          []string
	Files             []string
	CreatedAt         time.Time
}

// Checkpoint marks how far a session progressed through the pipeline so an
// interrupted run can resume without repeating completed stages.
type Checkpoint struct {
	Fingerprint string
	SessionID   string
	Stage       string
	UpdatedAt   time.Time
}

// Checkpoint stages in pipeline order.
const (
	StageMatched     = "matched"
	StageIdentified  = "identified"
	StageCategorized = "categorized"
	StageTransferred = "transferred"
	StageRecorded    = "recorded"
)
