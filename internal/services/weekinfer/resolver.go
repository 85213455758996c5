package weekinfer

import (
	"context"
	"time"
)

// Request carries everything known about a session relevant to week
// placement.
type Request struct {
	Student     string
	Coach       string
	SessionDate time.Time
	// HintedWeek is the week mined from file names or content, zero when
	// absent.
	HintedWeek int
}

// Week is a resolved program week placement.
type Week struct {
	Number       int
	ProgramWeeks int
	Confidence   int
	Method       string
}

// Resolver answers week placement questions for sessions.
type Resolver interface {
	ResolveWeek(ctx context.Context, req Request) (Week, error)
}
