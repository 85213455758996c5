package identify

import "strings"

// resolveNamePair assigns roles to an unlabeled two-name extraction.
//
// If one name matches an already-resolved coach, the other is the student.
// Otherwise both names are checked against the alias table: exactly one hit
// wins coach. With zero or two hits the second name defaults to coach and the
// first to student. That last default mirrors the dominant "<student> <>
// <coach>" folder convention but is an unverified heuristic; changing it
// silently shifts category accuracy, so it stays as documented.
func resolveNamePair(first, second, knownCoach string, aliases *AliasTable) (coach, student, detail string) {
	if knownCoach != "" {
		if sameName(first, knownCoach, aliases) {
			return first, second, "first name matches resolved coach"
		}
		if sameName(second, knownCoach, aliases) {
			return second, first, "second name matches resolved coach"
		}
	}

	_, _, firstHit := aliases.Lookup(first)
	_, _, secondHit := aliases.Lookup(second)
	switch {
	case firstHit && !secondHit:
		return first, second, "first name is a known coach alias"
	case secondHit && !firstHit:
		return second, first, "second name is a known coach alias"
	default:
		return second, first, "default: second unlabeled name assumed coach"
	}
}

// sameName reports whether two name spellings refer to the same person,
// directly or through the alias table.
func sameName(a, b string, aliases *AliasTable) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if strings.EqualFold(a, b) {
		return true
	}
	coachA, _, okA := aliases.Lookup(a)
	coachB, _, okB := aliases.Lookup(b)
	return okA && okB && coachA == coachB
}
