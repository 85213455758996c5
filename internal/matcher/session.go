package matcher

import (
	"time"

	"github.com/google/uuid"

	"rollcall/internal/recording"
	"rollcall/internal/textutil"
)

// Metadata aggregates the hints a session's files agree on. Derived once when
// the session is sealed; identity resolution refines it later.
type Metadata struct {
	Discriminator string
	StartTime     time.Time
	Date          string
	Week          int
	Participants  []string
	FolderID      string
	FolderName    string
	TotalSize     int64
}

// Session is the set of files believed to originate from one recorded meeting.
type Session struct {
	ID         string
	Files      []recording.RawFile
	Metadata   Metadata
	Confidence float64
}

// HasMedia reports whether the session contains at least one video or audio file.
func (s Session) HasMedia() bool {
	for _, f := range s.Files {
		if f.FileType.IsMedia() {
			return true
		}
	}
	return false
}

// FileOfType returns the first file with the given type, if any.
func (s Session) FileOfType(t recording.FileType) (recording.RawFile, bool) {
	for _, f := range s.Files {
		if f.FileType == t {
			return f, true
		}
	}
	return recording.RawFile{}, false
}

// InvalidSession is a rejected cluster kept for reporting: groups without any
// media file are never written but never silently dropped either.
type InvalidSession struct {
	Session Session
	Reason  string
}

// newSession seals a cluster of files into a Session with derived metadata.
// meanScore is the mean join score of non-seed members; singletons get 1.
func newSession(files []recording.RawFile, meanScore float64) Session {
	s := Session{
		ID:         uuid.NewString(),
		Files:      files,
		Confidence: meanScore,
	}
	s.Metadata = deriveMetadata(files)
	return s
}

func deriveMetadata(files []recording.RawFile) Metadata {
	var meta Metadata
	for _, f := range files {
		meta.TotalSize += f.Size

		if meta.Discriminator == "" {
			if f.TimestampToken != "" {
				meta.Discriminator = f.TimestampToken
			} else if base := textutil.NormalizeBaseName(f.Name); base != "" {
				meta.Discriminator = base
			}
		}
		if meta.StartTime.IsZero() {
			if f.TimestampToken != "" {
				if ts, ok := recording.TokenStartTime(f.TimestampToken); ok {
					meta.StartTime = ts
				}
			}
		}
		if meta.Date == "" {
			meta.Date = f.PossibleDate
		}
		if meta.Week == 0 {
			meta.Week = f.PossibleWeek
		}
		if len(meta.Participants) == 0 {
			meta.Participants = f.PossibleParticipants
		}
		if meta.FolderID == "" {
			meta.FolderID = f.ParentFolderID
			meta.FolderName = f.ParentFolderName
		}
	}

	if meta.StartTime.IsZero() {
		for _, f := range files {
			if f.CreatedAt.IsZero() {
				continue
			}
			if meta.StartTime.IsZero() || f.CreatedAt.Before(meta.StartTime) {
				meta.StartTime = f.CreatedAt
			}
		}
	}
	return meta
}
