package identify

import "testing"

func TestResolveNamePair(t *testing.T) {
	aliases := testAliases()

	tests := []struct {
		name        string
		first       string
		second      string
		knownCoach  string
		wantCoach   string
		wantStudent string
	}{
		{
			name:        "known coach is first",
			first:       "Jamie",
			second:      "Zainab",
			knownCoach:  "Jamie",
			wantCoach:   "Jamie",
			wantStudent: "Zainab",
		},
		{
			name:        "known coach is second",
			first:       "Zainab",
			second:      "Jamie",
			knownCoach:  "Jamie",
			wantCoach:   "Jamie",
			wantStudent: "Zainab",
		},
		{
			name:        "known coach via alias spelling",
			first:       "Jamie Smith",
			second:      "Zainab",
			knownCoach:  "Jamie",
			wantCoach:   "Jamie Smith",
			wantStudent: "Zainab",
		},
		{
			name:        "single alias hit wins",
			first:       "Zainab",
			second:      "Jamie",
			wantCoach:   "Jamie",
			wantStudent: "Zainab",
		},
		{
			name:        "zero hits defaults second to coach",
			first:       "Zainab",
			second:      "Morgan",
			wantCoach:   "Morgan",
			wantStudent: "Zainab",
		},
		{
			name:        "two hits defaults second to coach",
			first:       "Jamie",
			second:      "Priya",
			wantCoach:   "Priya",
			wantStudent: "Jamie",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coach, student, _ := resolveNamePair(tt.first, tt.second, tt.knownCoach, aliases)
			if coach != tt.wantCoach || student != tt.wantStudent {
				t.Errorf("resolveNamePair(%q, %q, %q) = (%q, %q), want (%q, %q)",
					tt.first, tt.second, tt.knownCoach, coach, student, tt.wantCoach, tt.wantStudent)
			}
		})
	}
}
