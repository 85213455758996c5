package identify

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// AliasTable is the read-only lookup of known coaches, administrative account
// indicators, and staff accounts. Loaded once at startup and injected into
// every component that needs it.
type AliasTable struct {
	canonical       map[string]string // lowercased alias -> canonical coach key
	display         map[string]string // canonical coach key -> display name
	adminIndicators []string
	staff           map[string]struct{}
}

// aliasFile is the on-disk TOML shape of the alias table.
type aliasFile struct {
	Coaches map[string][]string `toml:"coaches"`
	Admin   struct {
		Indicators []string `toml:"indicators"`
	} `toml:"admin"`
	Staff struct {
		Accounts []string `toml:"accounts"`
	} `toml:"staff"`
}

// NewAliasTable builds a table from coach alias lists, administrative-account
// indicators, and staff accounts. Coach keys and aliases are matched
// case-insensitively; the coach key itself always counts as an alias.
func NewAliasTable(coaches map[string][]string, adminIndicators, staff []string) *AliasTable {
	t := &AliasTable{
		canonical: make(map[string]string),
		display:   make(map[string]string),
		staff:     make(map[string]struct{}, len(staff)),
	}
	for key, aliases := range coaches {
		canon := strings.ToLower(strings.TrimSpace(key))
		if canon == "" {
			continue
		}
		t.display[canon] = titleCaser.String(canon)
		t.canonical[canon] = canon
		for _, alias := range aliases {
			alias = strings.ToLower(strings.TrimSpace(alias))
			if alias != "" {
				t.canonical[alias] = canon
			}
		}
	}
	for _, ind := range adminIndicators {
		ind = strings.ToLower(strings.TrimSpace(ind))
		if ind != "" {
			t.adminIndicators = append(t.adminIndicators, ind)
		}
	}
	for _, acct := range staff {
		acct = strings.ToLower(strings.TrimSpace(acct))
		if acct != "" {
			t.staff[acct] = struct{}{}
		}
	}
	return t
}

// LoadAliasTable reads the TOML alias file referenced by configuration.
func LoadAliasTable(path string) (*AliasTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias table: %w", err)
	}
	var file aliasFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse alias table %s: %w", path, err)
	}
	return NewAliasTable(file.Coaches, file.Admin.Indicators, file.Staff.Accounts), nil
}

// Lookup resolves a raw name or address against the coach aliases. exact is
// true for a whole-string alias hit; false hits matched an alias embedded in
// the value (an email local part, a "Coach Jamie" label).
func (t *AliasTable) Lookup(raw string) (coach string, exact bool, ok bool) {
	if t == nil {
		return "", false, false
	}
	needle := strings.ToLower(strings.TrimSpace(raw))
	if needle == "" {
		return "", false, false
	}
	if canon, hit := t.canonical[needle]; hit {
		return t.display[canon], true, true
	}
	// Email local part: jamie@example.com -> jamie.
	if at := strings.IndexByte(needle, '@'); at > 0 {
		if canon, hit := t.canonical[needle[:at]]; hit {
			return t.display[canon], true, true
		}
	}
	// Embedded alias: longest alias contained as a word wins.
	var best string
	for alias, canon := range t.canonical {
		if len(alias) < 3 || len(alias) <= len(best) {
			continue
		}
		if containsWord(needle, alias) {
			best = alias
			coach = t.display[canon]
		}
	}
	if coach != "" {
		return coach, false, true
	}
	return "", false, false
}

// DisplayName returns the canonical display form for a known coach, or the
// title-cased input for anyone else.
func (t *AliasTable) DisplayName(raw string) string {
	if coach, _, ok := t.Lookup(raw); ok {
		return coach
	}
	return titleCaser.String(strings.TrimSpace(raw))
}

// IsAdminIndicator reports whether a value carries a known administrative
// account marker (shared logins, notification addresses, company rooms).
func (t *AliasTable) IsAdminIndicator(value string) bool {
	if t == nil {
		return false
	}
	needle := strings.ToLower(strings.TrimSpace(value))
	if needle == "" {
		return false
	}
	for _, ind := range t.adminIndicators {
		if strings.Contains(needle, ind) {
			return true
		}
	}
	return false
}

// IsStaff reports whether a participant name or address is a staff account.
func (t *AliasTable) IsStaff(value string) bool {
	if t == nil {
		return false
	}
	_, ok := t.staff[strings.ToLower(strings.TrimSpace(value))]
	return ok
}

func containsWord(haystack, word string) bool {
	idx := strings.Index(haystack, word)
	for idx >= 0 {
		before := idx == 0 || !isWordChar(haystack[idx-1])
		afterIdx := idx + len(word)
		after := afterIdx == len(haystack) || !isWordChar(haystack[afterIdx])
		if before && after {
			return true
		}
		next := strings.Index(haystack[idx+1:], word)
		if next < 0 {
			return false
		}
		idx += 1 + next
	}
	return false
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}
