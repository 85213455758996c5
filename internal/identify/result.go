package identify

import "fmt"

// Source identifies where an extracted value came from. Higher values win
// confidence ties.
type Source int

const (
	SourceNone Source = iota
	SourceFolder
	SourceTopic
	SourceHost
	SourceParticipants
	SourceContent
)

func (s Source) String() string {
	switch s {
	case SourceContent:
		return "content"
	case SourceParticipants:
		return "participants"
	case SourceHost:
		return "host"
	case SourceTopic:
		return "topic"
	case SourceFolder:
		return "folder"
	default:
		return "none"
	}
}

// Result is one extracted field value with its confidence and provenance.
type Result struct {
	Value      string
	Confidence int
	Source     Source
	Evidence   []string
}

// Present reports whether the result carries a value.
func (r Result) Present() bool {
	return r.Value != ""
}

// apply merges a candidate into the current result under the monotonicity
// rule: strictly higher confidence replaces, equal confidence replaces only
// from a higher-priority source, lower confidence never downgrades.
func (r *Result) apply(candidate Result) bool {
	if !candidate.Present() {
		return false
	}
	if r.Present() {
		if candidate.Confidence < r.Confidence {
			return false
		}
		if candidate.Confidence == r.Confidence && candidate.Source <= r.Source {
			return false
		}
	}
	*r = candidate
	return true
}

// evidence formats a provenance string for an accepted value.
func evidence(source Source, field, value string, confidence int, detail string) string {
	if detail != "" {
		return fmt.Sprintf("%s=%q (%d) via %s: %s", field, value, confidence, source, detail)
	}
	return fmt.Sprintf("%s=%q (%d) via %s", field, value, confidence, source)
}

func clampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
