package identify

import (
	"context"
	"reflect"
	"testing"

	"rollcall/internal/matcher"
)

func TestParseMeetingMetadata(t *testing.T) {
	payload := `{
		"topic": "Jamie <> Zainab | Wk #2",
		"host_name": "Jamie Smith",
		"host_email": "jamie@ivylevel.com",
		"duration": 45,
		"participants": [
			{"name": "Jamie Smith", "email": "jamie@ivylevel.com"},
			{"name": "Zainab Ahmed", "email": "zainab@gmail.com"},
			{"name": "  ", "email": ""}
		]
	}`

	info, ok := ParseMeetingMetadata(payload)
	if !ok {
		t.Fatal("expected metadata to parse")
	}
	if info.Topic != "Jamie <> Zainab | Wk #2" {
		t.Errorf("topic = %q", info.Topic)
	}
	if info.HostName != "Jamie Smith" || info.HostEmail != "jamie@ivylevel.com" {
		t.Errorf("host = %q / %q", info.HostName, info.HostEmail)
	}
	if info.DurationMinutes != 45 {
		t.Errorf("duration = %d, want 45", info.DurationMinutes)
	}
	want := []Participant{
		{Name: "Jamie Smith", Email: "jamie@ivylevel.com"},
		{Name: "Zainab Ahmed", Email: "zainab@gmail.com"},
	}
	if !reflect.DeepEqual(info.Participants, want) {
		t.Errorf("participants = %v, want %v", info.Participants, want)
	}
}

func TestParseMeetingMetadataRejectsJunk(t *testing.T) {
	for _, payload := range []string{"", "not json", "{}", `{"timeline": []}`} {
		if _, ok := ParseMeetingMetadata(payload); ok {
			t.Errorf("ParseMeetingMetadata(%q) = ok, want rejection", payload)
		}
	}
}

func TestResolveMetadataContentSource(t *testing.T) {
	payload := `{
		"host_name": "Jamie Smith",
		"participants": [
			{"name": "Jamie Smith", "email": "jamie@ivylevel.com"},
			{"name": "Zainab Ahmed", "email": "zainab@gmail.com"}
		]
	}`
	r := NewResolver(testAliases(), nil, nil)

	id := r.Resolve(context.Background(), matcher.Session{}, MeetingInfo{}, ContentBundle{
		Metadata: payload,
	})

	if id.Coach.Value != "Jamie" || id.Coach.Confidence != 75 || id.Coach.Source != SourceContent {
		t.Errorf("coach = %q (%d via %v), want Jamie (75 via content)",
			id.Coach.Value, id.Coach.Confidence, id.Coach.Source)
	}
	if id.Student.Value != "Zainab Ahmed" || id.Student.Confidence != 75 {
		t.Errorf("student = %q (%d), want Zainab Ahmed (75)", id.Student.Value, id.Student.Confidence)
	}
}
