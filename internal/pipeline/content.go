package pipeline

import (
	"io"
	"os"

	"rollcall/internal/identify"
	"rollcall/internal/matcher"
	"rollcall/internal/recording"
)

// maxContentBytes caps how much of a sidecar file is read for identity
// evidence. Transcripts beyond this are truncated, not skipped.
const maxContentBytes = 2 << 20

// loadContent reads the session's sidecar files into a content bundle.
// Unreadable files degrade to missing evidence rather than failing the unit.
func loadContent(session matcher.Session) identify.ContentBundle {
	var bundle identify.ContentBundle
	if file, ok := session.FileOfType(recording.FileTypeTranscript); ok {
		bundle.Transcript = readCapped(file.Path)
	}
	if file, ok := session.FileOfType(recording.FileTypeTimeline); ok {
		bundle.Timeline = readCapped(file.Path)
	}
	if file, ok := session.FileOfType(recording.FileTypeMetadata); ok {
		bundle.Metadata = readCapped(file.Path)
	}
	if file, ok := session.FileOfType(recording.FileTypeChat); ok {
		bundle.Chat = readCapped(file.Path)
	}
	return bundle
}

// meetingInfo assembles the provider-side meeting context for a session. The
// metadata sidecar supplies topic, host, roster, and duration when present.
// Folder names never enter the topic slot; they carry a lower confidence
// ceiling and are scored by the folder pattern library inside Resolve.
func meetingInfo(session matcher.Session, content identify.ContentBundle) identify.MeetingInfo {
	info, ok := identify.ParseMeetingMetadata(content.Metadata)
	if !ok {
		info = identify.MeetingInfo{}
	}
	info.StartTime = session.Metadata.StartTime
	return info
}

func readCapped(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxContentBytes))
	if err != nil {
		return ""
	}
	return string(data)
}
