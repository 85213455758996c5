package recording

import (
	"reflect"
	"testing"
)

func TestTimestampToken(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"standard", "GMT20240620-015624_Recording_1280x720.mp4", "GMT20240620-015624"},
		{"lowercase", "gmt20240620-015624_audio_only.m4a", "GMT20240620-015624"},
		{"absent", "Jamie Session Video.mp4", ""},
		{"malformed", "GMT2024062-01562_video.mp4", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TimestampToken(tt.input); got != tt.want {
				t.Errorf("TimestampToken(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenStartTime(t *testing.T) {
	ts, ok := TokenStartTime("GMT20240620-015624")
	if !ok {
		t.Fatal("expected token to parse")
	}
	if got := ts.Format("2006-01-02 15:04:05"); got != "2024-06-20 01:56:24" {
		t.Errorf("TokenStartTime = %s", got)
	}

	if _, ok := TokenStartTime("not-a-token"); ok {
		t.Error("expected parse failure")
	}
}

func TestPossibleDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"timestamp token", "GMT20240620-015624_Recording.mp4", "2024-06-20"},
		{"iso date", "Session 2024-07-01 Review.mp4", "2024-07-01"},
		{"compact date", "recording_20240815_final.mp4", "2024-08-15"},
		{"us date", "session 6/20/2024.mp4", "2024-06-20"},
		{"invalid month", "notes 2024-13-40.mp4", ""},
		{"none", "Weekly Review.mp4", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PossibleDate(tt.input); got != tt.want {
				t.Errorf("PossibleDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPossibleWeek(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"hash form", "Jamie <> Zainab | Wk #2", 2},
		{"word form", "Week 3 Review", 3},
		{"short form", "W4 checkin", 4},
		{"absent", "Monthly Review", 0},
		{"implausible", "Week 90 Review", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PossibleWeek(tt.input); got != tt.want {
				t.Errorf("PossibleWeek(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestPossibleParticipants(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"angle pair", "Jamie <> Zainab | Wk #2", []string{"Jamie", "Zainab"}},
		{"ampersand pair", "Jamie & Zainab session", []string{"Jamie", "Zainab"}},
		{"none", "GMT20240620-015624_Recording.mp4", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PossibleParticipants(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PossibleParticipants(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestClassifyFileType(t *testing.T) {
	tests := []struct {
		name string
		want FileType
	}{
		{"GMT20240620-015624_Recording_1280x720.mp4", FileTypeVideo},
		{"GMT20240620-015624_Recording_audio_only.m4a", FileTypeAudio},
		{"GMT20240620-015624_Recording.transcript.vtt", FileTypeTranscript},
		{"meeting_saved_chat.txt", FileTypeChat},
		{"audio_transcript.txt", FileTypeTranscript},
		{"GMT20240620-015624_timeline.json", FileTypeTimeline},
		{"GMT20240620-015624_meeting_metadata.json", FileTypeMetadata},
		{"metadata.json", FileTypeMetadata},
		{"payload.json", FileTypeOther},
		{"notes.txt", FileTypeOther},
		{"README", FileTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyFileType(tt.name); got != tt.want {
				t.Errorf("ClassifyFileType(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestAnnotateFolderFallback(t *testing.T) {
	file := Annotate(RawFile{
		Name:             "video.mp4",
		ParentFolderName: "Jamie <> Zainab - Week 3 - 2024-06-20",
	})

	if file.FileType != FileTypeVideo {
		t.Errorf("FileType = %q", file.FileType)
	}
	if file.PossibleDate != "2024-06-20" {
		t.Errorf("PossibleDate = %q", file.PossibleDate)
	}
	if file.PossibleWeek != 3 {
		t.Errorf("PossibleWeek = %d", file.PossibleWeek)
	}
	if key := file.ParticipantKey(); key != "jamie|zainab" {
		t.Errorf("ParticipantKey = %q", key)
	}
}

func TestAnnotateFileNameWins(t *testing.T) {
	file := Annotate(RawFile{
		Name:             "GMT20240620-015624_Recording.mp4",
		ParentFolderName: "archive 2023-01-01",
	})
	if file.TimestampToken != "GMT20240620-015624" {
		t.Errorf("TimestampToken = %q", file.TimestampToken)
	}
	if file.PossibleDate != "2024-06-20" {
		t.Errorf("PossibleDate = %q", file.PossibleDate)
	}
}
