package recording

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// timestampTokenPattern matches provider recording timestamps like
	// GMT20240620-015624 embedded in file names.
	timestampTokenPattern = regexp.MustCompile(`(?i)GMT(\d{8})-(\d{6})`)

	isoDatePattern     = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	compactDatePattern = regexp.MustCompile(`\b(20\d{6})\b`)
	usDatePattern      = regexp.MustCompile(`\b(\d{1,2})[-/](\d{1,2})[-/](20\d{2})\b`)

	weekPattern = regexp.MustCompile(`(?i)\b(?:wk|week|w)\s*#?\s*(\d{1,2})\b`)

	// participantPairPattern matches "Name <> Name", "Name x Name", and
	// "Name & Name" pairs that conventions embed in names and topics.
	// Each side is a run of up to three capitalized words.
	participantPairPattern = regexp.MustCompile(`([\p{Lu}][\p{L}.'-]*(?:\s+[\p{Lu}][\p{L}.'-]*){0,2})\s*(?:<>|&| x )\s*([\p{Lu}][\p{L}.'-]*(?:\s+[\p{Lu}][\p{L}.'-]*){0,2})`)
)

// TimestampToken extracts the embedded provider timestamp token, normalized
// to uppercase GMT form, or "" when absent.
func TimestampToken(name string) string {
	m := timestampTokenPattern.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return "GMT" + m[1] + "-" + m[2]
}

// TokenStartTime converts a timestamp token into a UTC time.
func TokenStartTime(token string) (time.Time, bool) {
	m := timestampTokenPattern.FindStringSubmatch(token)
	if m == nil {
		return time.Time{}, false
	}
	ts, err := time.Parse("20060102-150405", m[1]+"-"+m[2])
	if err != nil {
		return time.Time{}, false
	}
	return ts.UTC(), true
}

// PossibleDate extracts a calendar date from a file or folder name in
// YYYY-MM-DD form. The timestamp token wins; otherwise ISO, compact, and
// US-style dates are tried in order. Returns "" when nothing parses.
func PossibleDate(name string) string {
	if token := TimestampToken(name); token != "" {
		if ts, ok := TokenStartTime(token); ok {
			return ts.Format("2006-01-02")
		}
	}
	if m := isoDatePattern.FindStringSubmatch(name); m != nil {
		if valid := validDate(m[1] + m[2] + m[3]); valid != "" {
			return valid
		}
	}
	if m := compactDatePattern.FindStringSubmatch(name); m != nil {
		if valid := validDate(m[1]); valid != "" {
			return valid
		}
	}
	if m := usDatePattern.FindStringSubmatch(name); m != nil {
		month := pad2(m[1])
		day := pad2(m[2])
		if valid := validDate(m[3] + month + day); valid != "" {
			return valid
		}
	}
	return ""
}

func validDate(compact string) string {
	ts, err := time.Parse("20060102", compact)
	if err != nil {
		return ""
	}
	return ts.Format("2006-01-02")
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// PossibleWeek extracts a program week marker (Wk #2, Week 3, W4) from a
// name. Returns 0 when no marker is present or the number is implausible.
func PossibleWeek(name string) int {
	m := weekPattern.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	week, err := strconv.Atoi(m[1])
	if err != nil || week < 1 || week > 52 {
		return 0
	}
	return week
}

// PossibleParticipants extracts participant name hints from paired-name
// conventions in file and folder names. Returns nil when nothing matches.
func PossibleParticipants(name string) []string {
	m := participantPairPattern.FindStringSubmatch(name)
	if m == nil {
		return nil
	}
	first := cleanName(m[1])
	second := cleanName(m[2])
	if first == "" || second == "" {
		return nil
	}
	return []string{first, second}
}

// nameCutPattern separates a name from trailing annotations ("Zainab - Week 3").
var nameCutPattern = regexp.MustCompile(`\s+[-|]\s+`)

// trailingNoise matches capitalized filler words that the pair pattern can
// swallow after a real name.
var trailingNoise = regexp.MustCompile(`(?i)\s+(?:week|wk|session|meeting|call|recording)$`)

func cleanName(raw string) string {
	name := strings.TrimSpace(raw)
	if parts := nameCutPattern.Split(name, 2); len(parts) > 0 {
		name = parts[0]
	}
	// Week markers and similar trailing annotations are not names.
	name = weekPattern.ReplaceAllString(name, "")
	name = trailingNoise.ReplaceAllString(name, "")
	return strings.Trim(strings.TrimSpace(name), ".-'")
}

// Annotate fills a RawFile's derived hint fields from its name and parent
// folder name. The folder provides fallback hints only; the file name wins.
func Annotate(file RawFile) RawFile {
	file.FileType = ClassifyFileType(file.Name)
	file.TimestampToken = TimestampToken(file.Name)

	file.PossibleDate = PossibleDate(file.Name)
	if file.PossibleDate == "" {
		file.PossibleDate = PossibleDate(file.ParentFolderName)
	}

	file.PossibleWeek = PossibleWeek(file.Name)
	if file.PossibleWeek == 0 {
		file.PossibleWeek = PossibleWeek(file.ParentFolderName)
	}

	file.PossibleParticipants = PossibleParticipants(file.Name)
	if len(file.PossibleParticipants) == 0 {
		file.PossibleParticipants = PossibleParticipants(file.ParentFolderName)
	}

	return file
}
