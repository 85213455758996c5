package identify

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Content base confidences per source kind, most reliable first. A value
// corroborated by additional content sources gains +5 per extra source,
// capped at 100.
const (
	confTranscript    = 95
	confTimeline      = 85
	confMetadata      = 75
	confChat          = 70
	corroborationStep = 5
)

// ContentBundle carries the downloadable text content of a session's files.
// Any field may be empty; extraction uses whatever is present.
type ContentBundle struct {
	Transcript string
	Timeline   string
	Metadata   string
	Chat       string
}

// Empty reports whether the bundle holds no content at all.
func (b ContentBundle) Empty() bool {
	return b.Transcript == "" && b.Timeline == "" && b.Metadata == "" && b.Chat == ""
}

// contentSource is the yield of one content extractor.
type contentSource struct {
	kind       string
	confidence int
	speakers   []string
	week       int
}

var (
	// vttVoicePattern matches WebVTT voice spans: <v Jamie Smith>.
	vttVoicePattern = regexp.MustCompile(`<v\s+([^>]+)>`)

	// speakerLinePattern matches "Jamie Smith: said something" transcript lines.
	speakerLinePattern = regexp.MustCompile(`(?m)^([\p{Lu}][\p{L}.'-]*(?:[ ][\p{Lu}][\p{L}.'-]*){0,2}):\s`)

	// chatFromPattern matches "09:01:22 From Jamie Smith to Everyone:" chat lines.
	chatFromPattern = regexp.MustCompile(`(?im)\bfrom\s+(.+?)\s+to\s+`)

	contentWeekPattern = regexp.MustCompile(`(?i)\bweek\s*#?\s*(\d{1,2})\b`)
)

func extractContentSources(bundle ContentBundle) []contentSource {
	var sources []contentSource
	if bundle.Transcript != "" {
		sources = append(sources, contentSource{
			kind:       "transcript",
			confidence: confTranscript,
			speakers:   transcriptSpeakers(bundle.Transcript),
			week:       contentWeek(bundle.Transcript),
		})
	}
	if bundle.Timeline != "" {
		sources = append(sources, contentSource{
			kind:       "timeline",
			confidence: confTimeline,
			speakers:   timelineUsers(bundle.Timeline),
		})
	}
	if bundle.Metadata != "" {
		sources = append(sources, contentSource{
			kind:       "metadata",
			confidence: confMetadata,
			speakers:   metadataNames(bundle.Metadata),
		})
	}
	if bundle.Chat != "" {
		sources = append(sources, contentSource{
			kind:       "chat",
			confidence: confChat,
			speakers:   chatSenders(bundle.Chat),
		})
	}
	return sources
}

// transcriptSpeakers collects distinct speaker labels from VTT voice spans
// and "Name:" line prefixes, in order of first appearance.
func transcriptSpeakers(text string) []string {
	var names []string
	for _, m := range vttVoicePattern.FindAllStringSubmatch(text, -1) {
		names = appendDistinct(names, m[1])
	}
	for _, m := range speakerLinePattern.FindAllStringSubmatch(text, -1) {
		names = appendDistinct(names, m[1])
	}
	return names
}

// timelineUsers parses the provider timeline JSON and collects usernames.
func timelineUsers(payload string) []string {
	var doc struct {
		Timeline []struct {
			Users []struct {
				Username string `json:"username"`
			} `json:"users"`
		} `json:"timeline"`
	}
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil
	}
	var names []string
	for _, entry := range doc.Timeline {
		for _, user := range entry.Users {
			names = appendDistinct(names, user.Username)
		}
	}
	return names
}

// ParseMeetingMetadata decodes a provider metadata sidecar into MeetingInfo:
// topic, host, roster, and duration. ok is false when the payload is not the
// expected JSON shape or carries no meeting fields at all.
func ParseMeetingMetadata(payload string) (MeetingInfo, bool) {
	var doc struct {
		Topic        string `json:"topic"`
		HostName     string `json:"host_name"`
		HostEmail    string `json:"host_email"`
		Duration     int    `json:"duration"`
		Participants []struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"participants"`
	}
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return MeetingInfo{}, false
	}

	info := MeetingInfo{
		Topic:     strings.TrimSpace(doc.Topic),
		HostName:  strings.TrimSpace(doc.HostName),
		HostEmail: strings.TrimSpace(doc.HostEmail),
	}
	if doc.Duration > 0 {
		info.DurationMinutes = doc.Duration
	}
	for _, p := range doc.Participants {
		name := strings.TrimSpace(p.Name)
		email := strings.TrimSpace(p.Email)
		if name == "" && email == "" {
			continue
		}
		info.Participants = append(info.Participants, Participant{Name: name, Email: email})
	}

	empty := info.Topic == "" && info.HostName == "" && info.HostEmail == "" &&
		info.DurationMinutes == 0 && len(info.Participants) == 0
	return info, !empty
}

// metadataNames flattens structured meeting metadata into the speaker list
// the content extractor scores.
func metadataNames(payload string) []string {
	info, ok := ParseMeetingMetadata(payload)
	if !ok {
		return nil
	}
	var names []string
	names = appendDistinct(names, info.HostName)
	names = appendDistinct(names, info.HostEmail)
	for _, p := range info.Participants {
		names = appendDistinct(names, p.Name)
		names = appendDistinct(names, p.Email)
	}
	return names
}

// chatSenders collects distinct sender names from saved chat logs.
func chatSenders(text string) []string {
	var names []string
	for _, m := range chatFromPattern.FindAllStringSubmatch(text, -1) {
		names = appendDistinct(names, m[1])
	}
	return names
}

func contentWeek(text string) int {
	m := contentWeekPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	week, err := strconv.Atoi(m[1])
	if err != nil || week < 1 || week > 52 {
		return 0
	}
	return week
}

func appendDistinct(names []string, raw string) []string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return names
	}
	for _, existing := range names {
		if strings.EqualFold(existing, name) {
			return names
		}
	}
	return append(names, name)
}
