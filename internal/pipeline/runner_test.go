package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rollcall/internal/categorize"
	"rollcall/internal/config"
	"rollcall/internal/identify"
	"rollcall/internal/logging"
	"rollcall/internal/queue"
	"rollcall/internal/recording"
	"rollcall/internal/services/namestd"
	"rollcall/internal/services/weekinfer"
	"rollcall/internal/sources"
	"rollcall/internal/testsupport"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithWorkers(2))
	if err := os.MkdirAll(cfg.Paths.InboxDir, 0o755); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func writeInboxFile(t *testing.T, cfg *config.Config, rel, content string) {
	t.Helper()
	testsupport.WriteTextFile(t, filepath.Join(cfg.Paths.InboxDir, rel), content)
}

func testRunner(t *testing.T, cfg *config.Config, source sources.Source) (*Runner, *queue.Store) {
	t.Helper()
	store := testsupport.MustOpenStore(t, cfg)

	aliases := identify.NewAliasTable(map[string][]string{
		"Jamie": {"jamie", "jamie.k"},
	}, []string{"admin"}, []string{"admin@ivylevel.com", "operations"})

	if source == nil {
		source = sources.NewDriveSource(cfg.Paths.InboxDir, logging.NewNop())
	}

	runner, err := NewRunner(cfg, Deps{
		Source:      source,
		Store:       store,
		Resolver:    identify.NewResolver(aliases, namestd.Passthrough{}, logging.NewNop()),
		Categorizer: categorize.New(aliases, categorize.WithTrivialFloor(cfg.Identity.TrivialMinMinutes)),
		Weeks:       weekinfer.Static{},
		Logger:      logging.NewNop(),
	})
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return runner, store
}

func seedSession(t *testing.T, cfg *config.Config) {
	t.Helper()
	folder := "Jamie <> Zainab - Week 2"
	writeInboxFile(t, cfg, filepath.Join(folder, "GMT20240620-015624_Recording_1920x1080.mp4"), strings.Repeat("v", 64))
	writeInboxFile(t, cfg, filepath.Join(folder, "GMT20240620-015624_Recording.transcript.vtt"),
		"WEBVTT\n\n1\n00:00:01.000 --> 00:00:04.000\n<v Jamie>Welcome to week 2.\n\n2\n00:00:05.000 --> 00:00:08.000\n<v Zainab>Thanks!\n")
	writeInboxFile(t, cfg, filepath.Join(folder, "GMT20240620-015624_Recording.newChat.txt"),
		"01:56:30 From Jamie to Everyone: hi\n01:56:45 From Zainab to Everyone: hello\n")
}

func TestRunRecordsSession(t *testing.T) {
	cfg := testConfig(t)
	seedSession(t, cfg)
	runner, store := testRunner(t, cfg, nil)

	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Processed != 1 || report.Succeeded != 1 || report.Failed != 0 {
		t.Fatalf("report = %+v", report)
	}
	if report.RunID == "" {
		t.Error("missing run id")
	}

	records, err := store.RecentRecords(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentRecords: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	record := records[0]
	if record.Coach != "Jamie" {
		t.Errorf("coach = %q", record.Coach)
	}
	if record.Student != "Zainab" {
		t.Errorf("student = %q", record.Student)
	}
	if record.Week != 2 {
		t.Errorf("week = %d", record.Week)
	}
	if record.Category != string(categorize.CategoryCoaching) {
		t.Errorf("category = %q", record.Category)
	}
	if record.ProcessingVersion != ProcessingVersion {
		t.Errorf("processing version = %q", record.ProcessingVersion)
	}
	if record.FileCount != 3 {
		t.Errorf("file count = %d", record.FileCount)
	}
	if record.Degraded {
		t.Error("clean run marked degraded")
	}

	// Staged files landed under the session folder.
	entries, err := os.ReadDir(record.StagedPath)
	if err != nil {
		t.Fatalf("read staged dir: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("staged files = %d, want 3", len(entries))
	}

	// The checkpoint is cleared once the record lands.
	cp, err := store.LoadCheckpoint(context.Background(), record.Fingerprint)
	if err != nil {
		t.Fatalf("LoadCheckpoint: %v", err)
	}
	if cp != nil {
		t.Errorf("checkpoint not cleared: %+v", cp)
	}
}

// mustRunOneRecord runs the pipeline and returns the single persisted record.
func mustRunOneRecord(t *testing.T, runner *Runner, store *queue.Store) *queue.Record {
	t.Helper()
	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Succeeded != 1 {
		t.Fatalf("report = %+v, want 1 succeeded", report)
	}
	records, err := store.RecentRecords(context.Background(), 1)
	if err != nil || len(records) != 1 {
		t.Fatalf("records = %v, err = %v", records, err)
	}
	return records[0]
}

func TestRunScoresFolderNamesAtFolderCeiling(t *testing.T) {
	cfg := testConfig(t)
	// No sidecars: the folder name is the only identity signal.
	writeInboxFile(t, cfg,
		filepath.Join("Jamie <> Zainab - Wk #2", "GMT20240620-015624_Recording.mp4"),
		strings.Repeat("v", 64))
	runner, store := testRunner(t, cfg, nil)

	record := mustRunOneRecord(t, runner, store)
	if record.Coach != "Jamie" || record.Student != "Zainab" {
		t.Fatalf("identity = %q / %q, want Jamie / Zainab", record.Coach, record.Student)
	}
	if record.Week != 2 {
		t.Errorf("week = %d, want 2", record.Week)
	}
	if record.Confidence > 80 {
		t.Errorf("folder-derived confidence %d exceeds the 80 folder ceiling", record.Confidence)
	}

	sawFolder := false
	for _, line := range record.Evidence {
		if strings.Contains(line, "via topic") {
			t.Errorf("folder name scored through topic patterns: %s", line)
		}
		if strings.Contains(line, "via folder") {
			sawFolder = true
		}
	}
	if !sawFolder {
		t.Error("expected folder pattern evidence")
	}
}

func TestRunReadsMeetingMetadataSidecar(t *testing.T) {
	cfg := testConfig(t)
	writeInboxFile(t, cfg,
		filepath.Join("archive", "GMT20240620-015624_Recording.mp4"),
		strings.Repeat("v", 64))
	writeInboxFile(t, cfg,
		filepath.Join("archive", "GMT20240620-015624_meeting_metadata.json"),
		`{"topic":"Jamie <> Zainab | Wk #2","host_name":"Jamie","host_email":"jamie.k@ivylevel.com","duration":45,"participants":[{"name":"Jamie","email":"jamie.k@ivylevel.com"},{"name":"Zainab","email":"zainab@gmail.com"}]}`)
	runner, store := testRunner(t, cfg, nil)

	record := mustRunOneRecord(t, runner, store)
	if record.Coach != "Jamie" || record.Student != "Zainab" {
		t.Fatalf("identity = %q / %q, want Jamie / Zainab", record.Coach, record.Student)
	}
	if record.Week != 2 {
		t.Errorf("week = %d, want 2", record.Week)
	}
	if record.Category != string(categorize.CategoryCoaching) {
		t.Errorf("category = %q, want Coaching", record.Category)
	}

	sawCoachRoster, sawStudentRoster := false, false
	for _, line := range record.Evidence {
		if strings.Contains(line, "roster alias match") {
			sawCoachRoster = true
		}
		if strings.Contains(line, "first non-staff roster entry") {
			sawStudentRoster = true
		}
	}
	if !sawCoachRoster || !sawStudentRoster {
		t.Errorf("expected roster evidence for both roles, got %v", record.Evidence)
	}
}

func TestRunHostAliasFromMetadataSidecar(t *testing.T) {
	cfg := testConfig(t)
	writeInboxFile(t, cfg,
		filepath.Join("archive", "GMT20240620-015624_Recording.mp4"),
		strings.Repeat("v", 64))
	writeInboxFile(t, cfg,
		filepath.Join("archive", "GMT20240620-015624_meeting_metadata.json"),
		`{"host_name":"Jamie","host_email":"jamie.k@ivylevel.com","duration":45}`)
	runner, store := testRunner(t, cfg, nil)

	record := mustRunOneRecord(t, runner, store)
	if record.Coach != "Jamie" {
		t.Fatalf("coach = %q, want Jamie", record.Coach)
	}
	if record.Category != string(categorize.CategoryCoaching) {
		t.Errorf("category = %q, want Coaching", record.Category)
	}

	sawHost := false
	for _, line := range record.Evidence {
		if strings.Contains(line, "exact host alias hit") {
			sawHost = true
		}
	}
	if !sawHost {
		t.Errorf("expected host alias evidence, got %v", record.Evidence)
	}
}

func TestRunShortSessionMarkedTrivial(t *testing.T) {
	cfg := testConfig(t)
	// Duration below the configured floor (default 5 minutes).
	writeInboxFile(t, cfg,
		filepath.Join("archive", "GMT20240620-015624_Recording.mp4"),
		strings.Repeat("v", 64))
	writeInboxFile(t, cfg,
		filepath.Join("archive", "GMT20240620-015624_meeting_metadata.json"),
		`{"host_email":"jamie.k@ivylevel.com","duration":3,"participants":[{"name":"Jamie"},{"name":"Zainab"}]}`)
	runner, store := testRunner(t, cfg, nil)

	record := mustRunOneRecord(t, runner, store)
	if record.Category != string(categorize.CategoryTrivial) {
		t.Errorf("category = %q, want Trivial", record.Category)
	}
}

func TestRunAdminHostWithoutStudentIsMISC(t *testing.T) {
	cfg := testConfig(t)
	writeInboxFile(t, cfg,
		filepath.Join("archive", "GMT20240620-015624_Recording.mp4"),
		strings.Repeat("v", 64))
	writeInboxFile(t, cfg,
		filepath.Join("archive", "GMT20240620-015624_meeting_metadata.json"),
		`{"topic":"Team Sync","host_name":"Operations","host_email":"admin@ivylevel.com","duration":30}`)
	runner, store := testRunner(t, cfg, nil)

	record := mustRunOneRecord(t, runner, store)
	if record.Category != string(categorize.CategoryMISC) {
		t.Errorf("category = %q, want MISC", record.Category)
	}
	if record.SessionType != "Admin" {
		t.Errorf("session type = %q, want Admin", record.SessionType)
	}
}

func TestStagingNames(t *testing.T) {
	files := []recording.RawFile{
		{ID: "folder-a/GMT20240620-015624_Recording.mp4", Name: "GMT20240620-015624_Recording.mp4"},
		{ID: "folder-b/GMT20240620-015624_Recording.mp4", Name: "GMT20240620-015624_Recording.mp4"},
		{ID: "folder-a/GMT20240620-015624_Recording.transcript.vtt", Name: "GMT20240620-015624_Recording.transcript.vtt"},
	}

	names := stagingNames(files)
	if len(names) != 3 {
		t.Fatalf("names = %v", names)
	}
	if names[0] == names[1] {
		t.Errorf("colliding base names share destination %q", names[0])
	}
	if names[2] != files[2].Name {
		t.Errorf("unique name rewritten to %q", names[2])
	}
	for _, name := range names[:2] {
		if strings.ContainsAny(name, `/\`) {
			t.Errorf("destination %q is not a single path component", name)
		}
		if !strings.HasSuffix(name, ".mp4") {
			t.Errorf("destination %q lost its extension", name)
		}
	}
}

func TestRunSkipsAlreadyRecorded(t *testing.T) {
	cfg := testConfig(t)
	seedSession(t, cfg)
	runner, _ := testRunner(t, cfg, nil)

	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}

	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if report.Succeeded != 0 || report.Skipped != 1 {
		t.Errorf("second run report = %+v, want 1 skipped", report)
	}
}

func TestRunCountsInvalidSessions(t *testing.T) {
	cfg := testConfig(t)
	// A transcript with no sibling media forms an invalid session.
	writeInboxFile(t, cfg, "GMT20240620-015624_Recording.transcript.vtt", "WEBVTT\n")
	runner, _ := testRunner(t, cfg, nil)

	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Invalid != 1 {
		t.Errorf("invalid = %d, want 1", report.Invalid)
	}
	if report.Processed != 0 {
		t.Errorf("processed = %d, want 0", report.Processed)
	}
}

// failingSource wraps a real source but fails downloads matching a name
// fragment.
type failingSource struct {
	sources.Source
	failSubstring string
}

func (f failingSource) Download(ctx context.Context, file recording.RawFile, dest string) error {
	if strings.Contains(file.Name, f.failSubstring) {
		return errors.New("simulated transfer failure")
	}
	return f.Source.Download(ctx, file, dest)
}

func TestRunDegradedWhenSidecarFails(t *testing.T) {
	cfg := testConfig(t)
	seedSession(t, cfg)
	inner := sources.NewDriveSource(cfg.Paths.InboxDir, logging.NewNop())
	runner, store := testRunner(t, cfg, failingSource{Source: inner, failSubstring: "transcript"})

	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Succeeded != 1 || report.Degraded != 1 {
		t.Fatalf("report = %+v, want 1 succeeded degraded", report)
	}

	records, err := store.RecentRecords(context.Background(), 1)
	if err != nil || len(records) != 1 {
		t.Fatalf("records: %v, %v", records, err)
	}
	if !records[0].Degraded {
		t.Error("record not marked degraded")
	}
	if len(records[0].Files) != 2 {
		t.Errorf("transferred files = %v, want 2", records[0].Files)
	}
}

func TestRunFailsWhenMediaTransferFails(t *testing.T) {
	cfg := testConfig(t)
	seedSession(t, cfg)
	inner := sources.NewDriveSource(cfg.Paths.InboxDir, logging.NewNop())
	runner, store := testRunner(t, cfg, failingSource{Source: inner, failSubstring: ".mp4"})

	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Failed != 1 || report.Succeeded != 0 {
		t.Fatalf("report = %+v, want 1 failed", report)
	}

	if keys, err := store.ExistingKeys(context.Background()); err != nil || len(keys) != 0 {
		t.Errorf("failed session must not be recorded: %v, %v", keys, err)
	}
}
