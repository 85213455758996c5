package identify

import "testing"

func TestTopicPatternsOrderedMatch(t *testing.T) {
	patterns := TopicPatterns()

	tests := []struct {
		name    string
		topic   string
		pattern string
		ext     Extraction
	}{
		{
			name:    "full convention",
			topic:   "Jamie <> Zainab | Wk #2 | 24-Week Program",
			pattern: "pair_week_program",
			ext:     Extraction{FirstName: "Jamie", SecondName: "Zainab", Week: 2, ProgramWeeks: 24},
		},
		{
			name:    "pair with week",
			topic:   "Jamie <> Zainab | Wk #2",
			pattern: "pair_week",
			ext:     Extraction{FirstName: "Jamie", SecondName: "Zainab", Week: 2},
		},
		{
			name:    "labeled roles",
			topic:   "Coach: Jamie - Student: Zainab",
			pattern: "labeled_roles",
			ext:     Extraction{Coach: "Jamie", Student: "Zainab"},
		},
		{
			name:    "student with coach",
			topic:   "Zainab with Coach Jamie",
			pattern: "student_with_coach",
			ext:     Extraction{Coach: "Jamie", Student: "Zainab"},
		},
		{
			name:    "x pair with week",
			topic:   "Jamie x Zainab Week 3",
			pattern: "pair_x_week",
			ext:     Extraction{FirstName: "Jamie", SecondName: "Zainab", Week: 3},
		},
		{
			name:    "plain pair",
			topic:   "Jamie <> Zainab",
			pattern: "pair_plain",
			ext:     Extraction{FirstName: "Jamie", SecondName: "Zainab"},
		},
		{
			name:    "game plan keyword",
			topic:   "Zainab Game Plan Review",
			pattern: "typed_game_plan",
			ext:     Extraction{SessionType: "Game Plan"},
		},
		{
			name:    "session with student",
			topic:   "Coaching session with Zainab",
			pattern: "session_with_student",
			ext:     Extraction{Student: "Zainab"},
		},
		{
			name:    "personal meeting room",
			topic:   "Ivylevel's Personal Meeting Room",
			pattern: "personal_meeting_room",
			ext:     Extraction{Coach: "Ivylevel"},
		},
		{
			name:    "admin sync",
			topic:   "Weekly Team Sync",
			pattern: "typed_admin",
			ext:     Extraction{SessionType: "Admin"},
		},
		{
			name:    "week only",
			topic:   "Review for week 5",
			pattern: "week_only",
			ext:     Extraction{Week: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, ok := Match(patterns, tt.topic)
			if !ok {
				t.Fatalf("no pattern matched %q", tt.topic)
			}
			if ext.Pattern != tt.pattern {
				t.Fatalf("pattern = %q, want %q", ext.Pattern, tt.pattern)
			}
			if ext.Coach != tt.ext.Coach || ext.Student != tt.ext.Student ||
				ext.FirstName != tt.ext.FirstName || ext.SecondName != tt.ext.SecondName ||
				ext.Week != tt.ext.Week || ext.ProgramWeeks != tt.ext.ProgramWeeks ||
				ext.SessionType != tt.ext.SessionType {
				t.Errorf("extraction = %+v, want %+v", ext, tt.ext)
			}
		})
	}
}

func TestTopicPatternsLibrarySize(t *testing.T) {
	if got := len(TopicPatterns()); got < 12 {
		t.Errorf("topic pattern library has %d entries, want at least 12", got)
	}
}

func TestTopicPatternsNoMatch(t *testing.T) {
	if _, ok := Match(TopicPatterns(), ""); ok {
		t.Error("empty topic must not match")
	}
	if _, ok := Match(TopicPatterns(), "zzz 123"); ok {
		t.Error("noise topic must not match")
	}
}

func TestPairPatternsFlagNeedsResolution(t *testing.T) {
	ext, ok := Match(TopicPatterns(), "Jamie <> Zainab | Wk #2")
	if !ok {
		t.Fatal("expected match")
	}
	if !ext.NeedsResolution {
		t.Error("two generic names without roles must be flagged for resolution")
	}

	ext, ok = Match(TopicPatterns(), "Coach: Jamie - Student: Zainab")
	if !ok {
		t.Fatal("expected match")
	}
	if ext.NeedsResolution {
		t.Error("labeled roles need no resolution")
	}
}

func TestFolderPatternsCeiling(t *testing.T) {
	for _, p := range FolderPatterns() {
		if p.Confidence > 80 {
			t.Errorf("folder pattern %q confidence %d exceeds ceiling 80", p.Name, p.Confidence)
		}
	}
}

func TestFolderPatterns(t *testing.T) {
	ext, ok := Match(FolderPatterns(), "Zainab - Sessions")
	if !ok {
		t.Fatal("expected folder match")
	}
	if ext.Pattern != "folder_student_sessions" || ext.Student != "Zainab" {
		t.Errorf("extraction = %+v", ext)
	}

	ext, ok = Match(FolderPatterns(), "Program Week 4")
	if !ok {
		t.Fatal("expected folder match")
	}
	if ext.Week != 4 {
		t.Errorf("week = %d, want 4", ext.Week)
	}
}
