package textutil

import "testing"

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"identical", "recording", "recording", 0},
		{"both empty", "", "", 0},
		{"one empty", "", "abc", 3},
		{"single substitution", "kitten", "mitten", 1},
		{"classic", "kitten", "sitting", 3},
		{"unicode", "zoë", "zoe", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LevenshteinDistance(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestLevenshteinRatio(t *testing.T) {
	if got := LevenshteinRatio("", ""); got != 1 {
		t.Errorf("LevenshteinRatio(empty, empty) = %v, want 1", got)
	}
	if got := LevenshteinRatio("same", "same"); got != 1 {
		t.Errorf("LevenshteinRatio(identical) = %v, want 1", got)
	}
	if got := LevenshteinRatio("abcd", "wxyz"); got != 0 {
		t.Errorf("LevenshteinRatio(disjoint) = %v, want 0", got)
	}

	got := LevenshteinRatio("gmt20240620-015624", "gmt20240620-015625")
	if got <= 0.9 {
		t.Errorf("LevenshteinRatio(near-identical) = %v, want > 0.9", got)
	}
}

func TestLevenshteinRatioSymmetric(t *testing.T) {
	a, b := "session_recording", "session_recordings"
	if ab, ba := LevenshteinRatio(a, b), LevenshteinRatio(b, a); ab != ba {
		t.Errorf("LevenshteinRatio not symmetric: %v vs %v", ab, ba)
	}
}
