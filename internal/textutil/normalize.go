package textutil

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// resolutionPattern matches video resolution suffixes like 1280x720 or 1920X1080.
	resolutionPattern = regexp.MustCompile(`(?i)[_\- ]?\d{3,4}x\d{3,4}`)

	// duplicatePattern matches trailing duplicate markers: "(1)", " copy", "_copy2".
	duplicatePattern = regexp.MustCompile(`(?i)[_\- ]?(\(\d+\)|copy\s*\d*)\s*$`)

	// spaceDotPattern rewrites spaces and dots to underscores so siblings
	// named with different separators still compare equal.
	spaceDotPattern = regexp.MustCompile(`[ .]+`)

	// multiSeparator collapses runs of separator characters left behind by stripping.
	multiSeparator = regexp.MustCompile(`[_\- ]{2,}`)
)

// roleSuffixes are provider-assigned role markers that distinguish sibling
// files of one recording. Stripped so siblings normalize to the same base name.
var roleSuffixes = []string{
	"gallery_view",
	"speaker_view",
	"shared_screen_with_speaker_view",
	"shared_screen",
	"audio_only",
	"audio_transcript",
	"gallery",
	"speaker",
	"recording",
	"transcript",
	"newchat",
	"chat",
	"caption",
	"captions",
	"timeline",
	"video",
	"audio",
	"cc",
}

// NormalizeBaseName reduces a recording file name to a comparable base:
// extension, resolution suffixes, role suffixes, and duplicate markers are
// removed and the remainder is lowercased with separators collapsed.
func NormalizeBaseName(name string) string {
	base := strings.ToLower(strings.TrimSpace(name))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = duplicatePattern.ReplaceAllString(base, "")
	base = resolutionPattern.ReplaceAllString(base, "")

	for changed := true; changed; {
		changed = false
		for _, suffix := range roleSuffixes {
			for _, sep := range []string{"_", "-", " ", "."} {
				if strings.HasSuffix(base, sep+suffix) {
					base = strings.TrimSuffix(base, sep+suffix)
					changed = true
				}
			}
		}
	}

	base = spaceDotPattern.ReplaceAllString(base, "_")
	base = multiSeparator.ReplaceAllString(base, "_")
	return strings.Trim(base, "_-. ")
}

// SanitizeToken converts a string to a lowercase machine-safe token.
// Letters are lowercased, digits and hyphens/underscores are kept, everything
// else becomes an underscore. Returns "unknown" for empty input.
func SanitizeToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return "unknown"
	}
	return out
}
