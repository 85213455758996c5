package recording

import (
	"sort"
	"strings"
	"time"
)

// FileType classifies the role a raw file plays inside a recorded session.
type FileType string

const (
	FileTypeVideo      FileType = "video"
	FileTypeAudio      FileType = "audio"
	FileTypeTranscript FileType = "transcript"
	FileTypeChat       FileType = "chat"
	FileTypeTimeline   FileType = "timeline"
	FileTypeMetadata   FileType = "metadata"
	FileTypeOther      FileType = "other"
)

// IsMedia reports whether the type carries playable audio or video.
func (t FileType) IsMedia() bool {
	return t == FileTypeVideo || t == FileTypeAudio
}

// RawFile is one file discovered during a scan, annotated with everything the
// filename and folder context reveal. Immutable after the scan that created it.
type RawFile struct {
	ID               string
	Name             string
	Path             string
	Size             int64
	CreatedAt        time.Time
	ParentFolderID   string
	ParentFolderName string
	FileType         FileType

	// Hints mined from the name and folder, zero-valued when absent.
	TimestampToken       string
	PossibleDate         string // YYYY-MM-DD
	PossibleWeek         int
	PossibleParticipants []string
}

// HasParticipants reports whether any participant hints were mined.
func (f RawFile) HasParticipants() bool {
	return len(f.PossibleParticipants) > 0
}

// ParticipantKey returns a canonical comparison key for the participant hint
// set: lowercased, sorted, pipe-joined. Empty when no hints exist.
func (f RawFile) ParticipantKey() string {
	if len(f.PossibleParticipants) == 0 {
		return ""
	}
	names := make([]string, 0, len(f.PossibleParticipants))
	for _, p := range f.PossibleParticipants {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			names = append(names, p)
		}
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

var extensionTypes = map[string]FileType{
	".mp4":  FileTypeVideo,
	".mkv":  FileTypeVideo,
	".mov":  FileTypeVideo,
	".webm": FileTypeVideo,
	".m4a":  FileTypeAudio,
	".mp3":  FileTypeAudio,
	".wav":  FileTypeAudio,
	".aac":  FileTypeAudio,
	".vtt":  FileTypeTranscript,
	".srt":  FileTypeTranscript,
}

// ClassifyFileType maps a file name to its session role using the extension
// first and name hints to split the ambiguous text formats.
func ClassifyFileType(name string) FileType {
	lowered := strings.ToLower(strings.TrimSpace(name))
	idx := strings.LastIndex(lowered, ".")
	if idx < 0 {
		return FileTypeOther
	}
	ext := lowered[idx:]

	switch ext {
	case ".txt":
		switch {
		case strings.Contains(lowered, "chat"):
			return FileTypeChat
		case strings.Contains(lowered, "transcript"):
			return FileTypeTranscript
		default:
			return FileTypeOther
		}
	case ".json":
		switch {
		case strings.Contains(lowered, "timeline"):
			return FileTypeTimeline
		case strings.Contains(lowered, "metadata") || strings.Contains(lowered, "meeting"):
			return FileTypeMetadata
		default:
			return FileTypeOther
		}
	}

	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	return FileTypeOther
}
