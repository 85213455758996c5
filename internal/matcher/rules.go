package matcher

import (
	"rollcall/internal/recording"
	"rollcall/internal/textutil"
)

// Rule weights. A pair joins one session when the sum of matched rule weights
// reaches the threshold. The timestamp token is the strongest signal: two
// files stamped with the same capture second belong to the same event.
const (
	WeightTimestampToken = 0.5
	WeightBaseName       = 0.3
	WeightParentFolder   = 0.3
	WeightDate           = 0.2
	WeightParticipants   = 0.1

	// DefaultThreshold is the minimum pair score that merges two files.
	DefaultThreshold = 0.8

	// baseNameMinRatio is the Levenshtein ratio two normalized base names
	// must reach before the base-name rule counts.
	baseNameMinRatio = 0.9
)

// RuleHit records one similarity rule that matched a candidate pair.
type RuleHit struct {
	Rule   string
	Weight float64
}

// Score computes the weighted similarity between two raw files and reports
// which rules contributed.
func Score(a, b recording.RawFile) (float64, []RuleHit) {
	var hits []RuleHit

	if a.TimestampToken != "" && a.TimestampToken == b.TimestampToken {
		hits = append(hits, RuleHit{Rule: "timestamp_token", Weight: WeightTimestampToken})
	}

	baseA := textutil.NormalizeBaseName(a.Name)
	baseB := textutil.NormalizeBaseName(b.Name)
	if baseA != "" && baseB != "" && textutil.LevenshteinRatio(baseA, baseB) > baseNameMinRatio {
		hits = append(hits, RuleHit{Rule: "base_name", Weight: WeightBaseName})
	}

	if a.ParentFolderID != "" && a.ParentFolderID == b.ParentFolderID {
		hits = append(hits, RuleHit{Rule: "parent_folder", Weight: WeightParentFolder})
	}

	if a.PossibleDate != "" && a.PossibleDate == b.PossibleDate {
		hits = append(hits, RuleHit{Rule: "date", Weight: WeightDate})
	}

	if keyA := a.ParticipantKey(); keyA != "" && keyA == b.ParticipantKey() {
		hits = append(hits, RuleHit{Rule: "participants", Weight: WeightParticipants})
	}

	var total float64
	for _, hit := range hits {
		total += hit.Weight
	}
	return total, hits
}
