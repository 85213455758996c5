package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rollcall/internal/config"
	"rollcall/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	if err := os.MkdirAll(cfg.Paths.InboxDir, 0o755); err != nil {
		t.Fatalf("ensure inbox: %v", err)
	}

	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
inbox_dir = %q
staging_dir = %q
state_dir = %q
log_dir = %q

[matching]
min_file_size = 1

[pipeline]
workers = 2
retry_attempts = 1
`,
		cfg.Paths.InboxDir,
		cfg.Paths.StagingDir,
		cfg.Paths.StateDir,
		cfg.Paths.LogDir,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, configPath string, args []string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func seedInboxSession(t *testing.T, cfg *config.Config) {
	t.Helper()
	folder := filepath.Join(cfg.Paths.InboxDir, "Jamie <> Zainab - Week 2")
	testsupport.WriteTextFile(t, filepath.Join(folder, "GMT20240620-015624_Recording_1920x1080.mp4"), strings.Repeat("v", 64))
	testsupport.WriteTextFile(t, filepath.Join(folder, "GMT20240620-015624_Recording.transcript.vtt"),
		"WEBVTT\n\n1\n00:00:01.000 --> 00:00:04.000\n<v Jamie>Welcome to week 2.\n\n2\n00:00:05.000 --> 00:00:08.000\n<v Zainab>Thanks!\n")
	testsupport.WriteTextFile(t, filepath.Join(folder, "GMT20240620-015624_Recording.newChat.txt"),
		"01:56:30 From Jamie to Everyone: hi\n")
}

func TestCLIScanEmptyInbox(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, []string{"scan"})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "Inbox is empty")
}

func TestCLIScanShowsSessions(t *testing.T) {
	env := setupCLITestEnv(t)
	seedInboxSession(t, env.cfg)

	out, _, err := runCLI(t, env.configPath, []string{"scan"})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "GMT20240620-015624")
	requireContains(t, out, "Jamie <> Zainab - Week 2")

	out, _, err = runCLI(t, env.configPath, []string{"scan", "--json"})
	if err != nil {
		t.Fatalf("scan --json: %v", err)
	}
	requireContains(t, out, `"sessions"`)
	requireContains(t, out, `"score"`)
}

func TestCLIVersion(t *testing.T) {
	out, _, err := runCLI(t, "", []string{"version"})
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	requireContains(t, out, "rollcall "+version)
}

func TestCLIProcessAndRecords(t *testing.T) {
	env := setupCLITestEnv(t)
	seedInboxSession(t, env.cfg)

	out, _, err := runCLI(t, env.configPath, []string{"process"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	requireContains(t, out, "recorded:  1")

	out, _, err = runCLI(t, env.configPath, []string{"records", "list"})
	if err != nil {
		t.Fatalf("records list: %v", err)
	}
	requireContains(t, out, "Jamie")
	requireContains(t, out, "Zainab")
	requireContains(t, out, "Coaching")

	// A second run skips the already-recorded session.
	out, _, err = runCLI(t, env.configPath, []string{"process"})
	if err != nil {
		t.Fatalf("second process: %v", err)
	}
	requireContains(t, out, "skipped:   1")

	store := testsupport.MustOpenStore(t, env.cfg)
	records, err := store.RecentRecords(context.Background(), 1)
	if err != nil || len(records) != 1 {
		t.Fatalf("RecentRecords: %v, %v", records, err)
	}

	out, _, err = runCLI(t, env.configPath, []string{"records", "show", records[0].Fingerprint})
	if err != nil {
		t.Fatalf("records show: %v", err)
	}
	requireContains(t, out, "Evidence:")
	requireContains(t, out, records[0].Fingerprint)
}

func TestCLIRecordsEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, []string{"records", "list"})
	if err != nil {
		t.Fatalf("records list: %v", err)
	}
	requireContains(t, out, "No records yet")
}

func TestCLICheckpointsEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, []string{"checkpoints", "list"})
	if err != nil {
		t.Fatalf("checkpoints list: %v", err)
	}
	requireContains(t, out, "No checkpoints")

	out, _, err = runCLI(t, env.configPath, []string{"checkpoints", "clear", "--all"})
	if err != nil {
		t.Fatalf("checkpoints clear: %v", err)
	}
	requireContains(t, out, "Cleared 0 checkpoint(s)")
}

func TestCLITestNotifyWithoutTopic(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, []string{"test-notify"})
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "ntfy topic not configured")
}
