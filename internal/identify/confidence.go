package identify

// Field weights for the overall confidence aggregate. Absent fields drop out
// of the denominator entirely so a session with only a coach is judged on the
// coach alone.
var overallWeights = []struct {
	weight float64
	pick   func(Identity) Result
}{
	{0.3, func(id Identity) Result { return id.Coach }},
	{0.3, func(id Identity) Result { return id.Student }},
	{0.2, func(id Identity) Result { return id.Week }},
	{0.1, func(id Identity) Result { return id.SessionType }},
	{0.1, func(id Identity) Result { return id.ProgramDuration }},
}

// overallConfidence computes the weighted average confidence over present
// fields, rounded to the nearest integer.
func overallConfidence(id Identity) int {
	var sum, weights float64
	for _, entry := range overallWeights {
		field := entry.pick(id)
		if !field.Present() {
			continue
		}
		sum += entry.weight * float64(field.Confidence)
		weights += entry.weight
	}
	if weights == 0 {
		return 0
	}
	return clampConfidence(int(sum/weights + 0.5))
}
