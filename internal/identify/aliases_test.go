package identify

import (
	"os"
	"path/filepath"
	"testing"
)

func testAliases() *AliasTable {
	return NewAliasTable(
		map[string][]string{
			"jamie": {"jamie smith", "jamie@ivylevel.com", "coach jamie"},
			"priya": {"priya k", "priya@ivylevel.com"},
		},
		[]string{"ivylevel", "noreply"},
		[]string{"ops@ivylevel.com", "ivylevel team"},
	)
}

func TestAliasLookup(t *testing.T) {
	table := testAliases()

	tests := []struct {
		name      string
		input     string
		wantCoach string
		wantExact bool
		wantOK    bool
	}{
		{"canonical key", "jamie", "Jamie", true, true},
		{"case insensitive", "JAMIE SMITH", "Jamie", true, true},
		{"email alias", "jamie@ivylevel.com", "Jamie", true, true},
		{"email local part", "priya@gmail.com", "Priya", true, true},
		{"embedded alias", "session hosted by jamie today", "Jamie", false, true},
		{"no hit", "Zainab", "", false, false},
		{"empty", "", "", false, false},
		{"substring is not a word hit", "jamiexyz", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coach, exact, ok := table.Lookup(tt.input)
			if coach != tt.wantCoach || exact != tt.wantExact || ok != tt.wantOK {
				t.Errorf("Lookup(%q) = (%q, %v, %v), want (%q, %v, %v)",
					tt.input, coach, exact, ok, tt.wantCoach, tt.wantExact, tt.wantOK)
			}
		})
	}
}

func TestAliasAdminAndStaff(t *testing.T) {
	table := testAliases()

	if !table.IsAdminIndicator("Ivylevel's Personal Meeting Room") {
		t.Error("expected admin indicator hit")
	}
	if table.IsAdminIndicator("Jamie <> Zainab") {
		t.Error("unexpected admin indicator hit")
	}
	if !table.IsStaff("ops@ivylevel.com") {
		t.Error("expected staff hit")
	}
	if table.IsStaff("zainab@gmail.com") {
		t.Error("unexpected staff hit")
	}
}

func TestAliasDisplayName(t *testing.T) {
	table := testAliases()
	if got := table.DisplayName("jamie smith"); got != "Jamie" {
		t.Errorf("DisplayName(alias) = %q, want Jamie", got)
	}
	if got := table.DisplayName("zainab ahmed"); got != "Zainab Ahmed" {
		t.Errorf("DisplayName(unknown) = %q, want title case", got)
	}
}

func TestLoadAliasTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.toml")
	payload := `
[coaches]
jamie = ["jamie smith", "jamie@ivylevel.com"]

[admin]
indicators = ["ivylevel"]

[staff]
accounts = ["ops@ivylevel.com"]
`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write alias file: %v", err)
	}

	table, err := LoadAliasTable(path)
	if err != nil {
		t.Fatalf("LoadAliasTable: %v", err)
	}
	if coach, _, ok := table.Lookup("jamie smith"); !ok || coach != "Jamie" {
		t.Errorf("Lookup after load = (%q, %v)", coach, ok)
	}
	if !table.IsAdminIndicator("ivylevel ops") {
		t.Error("admin indicator missing after load")
	}
}

func TestLoadAliasTableMissing(t *testing.T) {
	if _, err := LoadAliasTable(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}
