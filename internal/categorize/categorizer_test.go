package categorize

import (
	"testing"

	"rollcall/internal/identify"
)

func testAliases() *identify.AliasTable {
	return identify.NewAliasTable(
		map[string][]string{"jamie": {"jamie smith", "jamie@ivylevel.com"}},
		[]string{"ivylevel", "noreply"},
		[]string{"ops@ivylevel.com"},
	)
}

func identity(coach, student string) identify.Identity {
	var id identify.Identity
	id.Coach.Value = coach
	id.Student.Value = student
	return id
}

func TestCategorizeRuleTable(t *testing.T) {
	c := New(testAliases())

	tests := []struct {
		name string
		id   identify.Identity
		meta Meta
		want Category
	}{
		{
			name: "coach and student",
			id:   identity("Jamie", "Zainab"),
			want: CategoryCoaching,
		},
		{
			name: "admin host without student",
			id:   identity("", ""),
			meta: Meta{Topic: "Ivylevel's Personal Meeting Room", HostEmail: "admin@ivylevel.com"},
			want: CategoryMISC,
		},
		{
			name: "admin coach value without student",
			id:   identity("Ivylevel", ""),
			want: CategoryMISC,
		},
		{
			name: "personal room with real coach",
			id:   identity("Jamie", ""),
			meta: Meta{Topic: "Jamie's Personal Meeting Room"},
			want: CategoryCoaching,
		},
		{
			name: "coach alone",
			id:   identity("Jamie", ""),
			want: CategoryCoaching,
		},
		{
			name: "nothing resolved",
			id:   identity("", ""),
			want: CategoryMISC,
		},
		{
			name: "placeholder coach",
			id:   identity("Unknown", ""),
			want: CategoryMISC,
		},
		{
			name: "placeholder student downgrades to coach alone",
			id:   identity("Jamie", "N/A"),
			want: CategoryCoaching,
		},
		{
			name: "admin rule precedes coach-alone rule",
			id:   identity("Jamie", ""),
			meta: Meta{HostEmail: "noreply@ivylevel.com"},
			want: CategoryMISC,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Categorize(tt.id, tt.meta); got != tt.want {
				t.Errorf("Categorize(%q/%q) = %q, want %q",
					tt.id.Coach.Value, tt.id.Student.Value, got, tt.want)
			}
		})
	}
}

func TestCategorizeTrivialFloor(t *testing.T) {
	c := New(testAliases(), WithTrivialFloor(10))

	got := c.Categorize(identity("Jamie", "Zainab"), Meta{DurationMinutes: 4})
	if got != CategoryTrivial {
		t.Errorf("short session = %q, want Trivial", got)
	}

	got = c.Categorize(identity("Jamie", "Zainab"), Meta{DurationMinutes: 45})
	if got != CategoryCoaching {
		t.Errorf("full session = %q, want Coaching", got)
	}

	// Unknown duration never triggers the floor.
	got = c.Categorize(identity("Jamie", "Zainab"), Meta{})
	if got != CategoryCoaching {
		t.Errorf("unknown duration = %q, want Coaching", got)
	}
}

func TestCategorizeTotality(t *testing.T) {
	c := New(testAliases())
	coaches := []string{"", "Jamie", "Unknown", "Ivylevel"}
	students := []string{"", "Zainab", "N/A"}
	topics := []string{"", "Jamie's Personal Meeting Room", "Weekly Team Sync"}

	for _, coach := range coaches {
		for _, student := range students {
			for _, topic := range topics {
				got := c.Categorize(identity(coach, student), Meta{Topic: topic})
				switch got {
				case CategoryCoaching, CategoryMISC, CategoryTrivial:
				default:
					t.Fatalf("Categorize(%q,%q,%q) = %q, outside codomain", coach, student, topic, got)
				}
			}
		}
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"Jamie", true},
		{"", false},
		{"   ", false},
		{"unknown", false},
		{"Unknown", false},
		{"N/A", false},
		{"-", false},
		{"Zainab Ahmed", true},
	}

	for _, tt := range tests {
		if got := Valid(tt.value); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
