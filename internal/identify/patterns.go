package identify

import (
	"regexp"
	"strconv"
	"strings"
)

// namePart matches a run of up to three capitalized words inside a topic.
const namePart = `[\p{Lu}][\p{L}.'-]*(?:[ ][\p{Lu}][\p{L}.'-]*){0,2}`

// Pattern is one ordered entry in the source pattern library: a compiled
// expression with named captures, a fixed base confidence, and flags for
// extractions that need role disambiguation downstream.
type Pattern struct {
	Name            string
	Confidence      int
	NeedsResolution bool
	SessionType     string

	re *regexp.Regexp
}

// Extraction is the raw yield of one pattern match before fusion.
type Extraction struct {
	Pattern         string
	Confidence      int
	NeedsResolution bool

	Coach        string
	Student      string
	FirstName    string // unlabeled pair, order as written
	SecondName   string
	Week         int
	ProgramWeeks int
	SessionType  string
}

func compile(name string, confidence int, expr string) Pattern {
	return Pattern{Name: name, Confidence: confidence, re: regexp.MustCompile(expr)}
}

func compilePair(name string, confidence int, expr string) Pattern {
	p := compile(name, confidence, expr)
	p.NeedsResolution = true
	return p
}

// TopicPatterns is the ordered library applied to meeting titles, most
// specific first. Order is part of the contract: the first match wins.
func TopicPatterns() []Pattern {
	return []Pattern{
		// Full convention: "Jamie <> Zainab | Wk #2 | 24-Week Program".
		compilePair("pair_week_program", 100,
			`(?i)^\s*(?P<first>`+namePart+`)\s*<>\s*(?P<second>`+namePart+`)\s*[|–-]\s*wk\s*#?\s*(?P<week>\d{1,2})\b.*?(?P<program>\d{1,2})\s*-?\s*week`),
		// "Jamie <> Zainab | Wk #2".
		compilePair("pair_week", 95,
			`(?i)^\s*(?P<first>`+namePart+`)\s*<>\s*(?P<second>`+namePart+`)\s*[|–-]\s*wk\s*#?\s*(?P<week>\d{1,2})\b`),
		// "Coach: Jamie / Student: Zainab" style labels in either order.
		compile("labeled_roles", 95,
			`(?i)coach\s*[:\-]\s*(?P<coach>`+namePart+`).*?student\s*[:\-]\s*(?P<student>`+namePart+`)`),
		// "Zainab with Coach Jamie".
		compile("student_with_coach", 90,
			`(?i)^\s*(?P<student>`+namePart+`)\s+with\s+coach\s+(?P<coach>`+namePart+`)`),
		// "Jamie x Zainab Week 3".
		compilePair("pair_x_week", 90,
			`(?i)^\s*(?P<first>`+namePart+`)\s+x\s+(?P<second>`+namePart+`)\b.*?\bweek\s*#?\s*(?P<week>\d{1,2})\b`),
		// "Jamie <> Zainab" with no week marker.
		compilePair("pair_plain", 85,
			`(?i)^\s*(?P<first>`+namePart+`)\s*<>\s*(?P<second>`+namePart+`)\s*$`),
		// Explicit session-type keywords anywhere in the topic.
		typed("typed_game_plan", 85, "Game Plan", `(?i)\bgame\s*plan\b`),
		typed("typed_onboarding", 85, "Onboarding", `(?i)\bonboarding\b`),
		typed("typed_assessment", 85, "Assessment", `(?i)\bassessment\b`),
		// "Coaching session with Zainab".
		compile("session_with_student", 80,
			`(?i)\bsession\s+with\s+(?P<student>`+namePart+`)`),
		// "Jamie & Zainab" loose pair.
		compilePair("pair_ampersand", 75,
			`(?i)^\s*(?P<first>`+namePart+`)\s*&\s*(?P<second>`+namePart+`)\s*$`),
		// "Jamie's Personal Meeting Room": owner name, no student signal.
		personalRoom("personal_meeting_room", 75),
		// Administrative syncs: "Team Sync", "Admin Meeting".
		typed("typed_admin", 80, "Admin", `(?i)\b(?:admin|internal|team)\s+(?:meeting|sync|standup)\b`),
		// Bare week marker: week number only, nothing else extractable.
		compile("week_only", 70, `(?i)\b(?:wk|week)\s*#?\s*(?P<week>\d{1,2})\b`),
	}
}

// FolderPatterns is the ordered library applied to folder paths. Folder
// naming is the least trustworthy source; confidence is capped at 80.
func FolderPatterns() []Pattern {
	return []Pattern{
		compilePair("folder_pair", 80,
			`(?i)(?P<first>`+namePart+`)\s*<>\s*(?P<second>`+namePart+`)`),
		compile("folder_coach_label", 75,
			`(?i)\bcoach\s*[-_ ]\s*(?P<coach>`+namePart+`)`),
		compile("folder_student_sessions", 70,
			`(?i)(?P<student>`+namePart+`)\s*[-_ ]\s*(?:sessions|recordings)\b`),
		compile("folder_week", 70, `(?i)\bweek\s*#?\s*(?P<week>\d{1,2})\b`),
	}
}

func typed(name string, confidence int, sessionType, expr string) Pattern {
	p := compile(name, confidence, expr)
	p.SessionType = sessionType
	return p
}

// personalRoom captures the room owner. The room topic itself says nothing
// about the session type; categorization inspects the topic text directly.
func personalRoom(name string, confidence int) Pattern {
	return compile(name, confidence,
		`(?i)^\s*(?P<coach>`+namePart+`)(?:'s)?\s+personal\s+meeting\s+room\s*$`)
}

// Match runs the library in order and returns the first extraction, or false
// when no pattern applies.
func Match(patterns []Pattern, text string) (Extraction, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Extraction{}, false
	}
	for _, p := range patterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		ext := Extraction{
			Pattern:         p.Name,
			Confidence:      p.Confidence,
			NeedsResolution: p.NeedsResolution,
			SessionType:     p.SessionType,
		}
		for i, group := range p.re.SubexpNames() {
			if i == 0 || group == "" || m[i] == "" {
				continue
			}
			value := strings.TrimSpace(m[i])
			// The name class admits apostrophes (O'Brien), so possessive
			// forms can leak into a capture.
			value = strings.TrimSuffix(value, "'s")
			switch group {
			case "coach":
				ext.Coach = value
			case "student":
				ext.Student = value
			case "first":
				ext.FirstName = value
			case "second":
				ext.SecondName = value
			case "week":
				ext.Week, _ = strconv.Atoi(value)
			case "program":
				ext.ProgramWeeks, _ = strconv.Atoi(value)
			}
		}
		return ext, true
	}
	return Extraction{}, false
}
