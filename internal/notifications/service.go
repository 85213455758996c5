package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rollcall/internal/config"
)

const userAgent = "Rollcall/0.1.0"

// Service defines the notification surface exposed to pipeline components.
type Service interface {
	NotifyRunStarted(ctx context.Context, sessions int) error
	NotifyRunCompleted(ctx context.Context, succeeded, failed, skipped int, duration time.Duration) error
	NotifyDuplicateSkipped(ctx context.Context, label string) error
	NotifyUnidentifiedSession(ctx context.Context, label string) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:     topic,
		client:       &http.Client{Timeout: timeout},
		runs:         cfg.Notifications.Runs,
		duplicates:   cfg.Notifications.Duplicates,
		unidentified: cfg.Notifications.Unidentified,
		errors:       cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint     string
	client       *http.Client
	runs         bool
	duplicates   bool
	unidentified bool
	errors       bool
}

func (n *ntfyService) NotifyRunStarted(ctx context.Context, sessions int) error {
	if !n.runs {
		return nil
	}
	data := payload{
		title:   "Rollcall - Run Started",
		message: fmt.Sprintf("Processing %d sessions", sessions),
		tags:    []string{"rollcall", "run", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunCompleted(ctx context.Context, succeeded, failed, skipped int, duration time.Duration) error {
	if !n.runs {
		return nil
	}
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	durationText := duration.String()
	if duration == 0 {
		durationText = "0s"
	}

	var title, message string
	if failed == 0 {
		title = "Rollcall - Run Complete"
		message = fmt.Sprintf("Run complete: %d recorded, %d skipped in %s", succeeded, skipped, durationText)
	} else {
		title = "Rollcall - Run Complete (with errors)"
		message = fmt.Sprintf("Run complete: %d recorded, %d failed, %d skipped in %s", succeeded, failed, skipped, durationText)
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"rollcall", "run", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyDuplicateSkipped(ctx context.Context, label string) error {
	if !n.duplicates {
		return nil
	}
	data := payload{
		title:    "Rollcall - Duplicate Skipped",
		message:  fmt.Sprintf("Already recorded: %s", strings.TrimSpace(label)),
		tags:     []string{"rollcall", "duplicate"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyUnidentifiedSession(ctx context.Context, label string) error {
	if !n.unidentified {
		return nil
	}
	data := payload{
		title:   "Rollcall - Unidentified Session",
		message: fmt.Sprintf("Could not identify: %s\nManual review required", strings.TrimSpace(label)),
		tags:    []string{"rollcall", "unidentified", "review"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Rollcall - Error",
		message:  builder.String(),
		tags:     []string{"rollcall", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Rollcall - Test",
		message:  "Notification system test",
		tags:     []string{"rollcall", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyRunStarted(context.Context, int) error                             { return nil }
func (noopService) NotifyRunCompleted(context.Context, int, int, int, time.Duration) error  { return nil }
func (noopService) NotifyDuplicateSkipped(context.Context, string) error                    { return nil }
func (noopService) NotifyUnidentifiedSession(context.Context, string) error                 { return nil }
func (noopService) NotifyError(context.Context, error, string) error                        { return nil }
func (noopService) TestNotification(context.Context) error                                  { return nil }
