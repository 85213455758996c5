package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"rollcall/internal/categorize"
	"rollcall/internal/config"
	"rollcall/internal/dedup"
	"rollcall/internal/fileutil"
	"rollcall/internal/identify"
	"rollcall/internal/logging"
	"rollcall/internal/matcher"
	"rollcall/internal/notifications"
	"rollcall/internal/queue"
	"rollcall/internal/recording"
	"rollcall/internal/services"
	"rollcall/internal/services/weekinfer"
	"rollcall/internal/sources"
)

// ProcessingVersion is stamped on every record so reprocessing logic can
// tell which pipeline revision produced a row.
const ProcessingVersion = "1"

// Deps bundles the collaborators a runner needs.
type Deps struct {
	Source      sources.Source
	Store       *queue.Store
	Resolver    *identify.Resolver
	Categorizer *categorize.Categorizer
	Weeks       weekinfer.Resolver
	Notifier    notifications.Service
	Logger      *slog.Logger
}

// Runner executes processing runs over the configured source.
type Runner struct {
	cfg         *config.Config
	source      sources.Source
	store       *queue.Store
	matcher     *matcher.Matcher
	resolver    *identify.Resolver
	categorizer *categorize.Categorizer
	weeks       weekinfer.Resolver
	gate        *dedup.Gate
	notifier    notifications.Service
	logger      *slog.Logger
}

// NewRunner wires a runner from config and dependencies.
func NewRunner(cfg *config.Config, deps Deps) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if deps.Source == nil {
		return nil, errors.New("source is required")
	}
	if deps.Store == nil {
		return nil, errors.New("store is required")
	}
	if deps.Resolver == nil {
		return nil, errors.New("resolver is required")
	}
	if deps.Categorizer == nil {
		return nil, errors.New("categorizer is required")
	}
	if deps.Weeks == nil {
		deps.Weeks = weekinfer.Static{}
	}
	if deps.Notifier == nil {
		deps.Notifier = notifications.NewService(cfg)
	}

	return &Runner{
		cfg:         cfg,
		source:      deps.Source,
		store:       deps.Store,
		matcher:     matcher.New(deps.Logger, matcher.WithThreshold(cfg.Matching.Threshold)),
		resolver:    deps.Resolver,
		categorizer: deps.Categorizer,
		weeks:       deps.Weeks,
		gate:        dedup.NewGate(deps.Store),
		notifier:    deps.Notifier,
		logger:      logging.NewComponentLogger(deps.Logger, "pipeline"),
	}, nil
}

// Run scans the source, forms sessions, and processes each one through the
// full stage sequence. The report is returned even when units fail; the
// error is reserved for failures that prevent the run itself.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	started := time.Now()
	report := &Report{RunID: uuid.NewString()}
	ctx = services.WithRunID(ctx, report.RunID)

	files, err := r.source.List(ctx, sources.ListOptions{
		MaxDepth:    r.cfg.Matching.MaxDepth,
		MinFileSize: r.cfg.Matching.MinFileSize,
	})
	if err != nil {
		return report, fmt.Errorf("list source: %w", err)
	}

	sessions, invalid := r.matcher.MatchRecordings(files)
	report.Invalid = len(invalid)
	for _, inv := range invalid {
		r.logger.Warn("session rejected",
			logging.String("session", inv.Session.Metadata.Discriminator),
			logging.String("reason", inv.Reason),
		)
	}

	// Preload known fingerprints so already-recorded sessions are skipped
	// without dispatching a worker. The gate re-checks before every write.
	existing, err := r.store.ExistingKeys(ctx)
	if err != nil {
		return report, fmt.Errorf("load existing keys: %w", err)
	}
	pending := make([]matcher.Session, 0, len(sessions))
	for _, session := range sessions {
		if _, seen := existing[dedup.Fingerprint(session)]; seen {
			report.Skipped++
			continue
		}
		pending = append(pending, session)
	}

	r.logger.Info("run started",
		logging.String("run_id", report.RunID),
		logging.Int("files", len(files)),
		logging.Int("sessions", len(pending)),
		logging.Int("already_recorded", report.Skipped),
		logging.Int("invalid", report.Invalid),
	)
	if len(pending) > 0 {
		if err := r.notifier.NotifyRunStarted(ctx, len(pending)); err != nil {
			r.logger.Warn("run start notification failed", logging.Error(err))
		}
	}

	r.processAll(ctx, pending, report)

	report.Duration = time.Since(started)
	r.logger.Info("run finished",
		logging.String("run_id", report.RunID),
		logging.Int("succeeded", report.Succeeded),
		logging.Int("failed", report.Failed),
		logging.Int("skipped", report.Skipped),
		logging.Int("degraded", report.Degraded),
		logging.Duration("duration", report.Duration),
	)
	if report.Processed > 0 {
		if err := r.notifier.NotifyRunCompleted(ctx, report.Succeeded, report.Failed, report.Skipped, report.Duration); err != nil {
			r.logger.Warn("run completion notification failed", logging.Error(err))
		}
	}
	return report, ctx.Err()
}

func (r *Runner) processAll(ctx context.Context, sessions []matcher.Session, report *Report) {
	if len(sessions) == 0 {
		return
	}

	workers := r.cfg.Pipeline.Workers
	if workers > len(sessions) {
		workers = len(sessions)
	}

	units := make(chan matcher.Session)
	results := make(chan unitResult, len(sessions))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for session := range units {
				results <- r.processSession(ctx, session)
			}
		}()
	}

dispatch:
	for _, session := range sessions {
		select {
		case <-ctx.Done():
			break dispatch
		case units <- session:
		}
	}
	close(units)
	wg.Wait()
	close(results)

	for result := range results {
		report.Processed++
		switch result.outcome {
		case outcomeSucceeded:
			report.Succeeded++
			if result.degraded {
				report.Degraded++
			}
		case outcomeSkipped:
			report.Skipped++
		case outcomeFailed:
			report.Failed++
			if result.err != nil {
				r.logger.Error("session failed", logging.Error(result.err))
			}
		}
	}
}

// processSession runs the stage sequence for one session. Every stage
// completion is checkpointed so an interrupted run resumes cheaply.
func (r *Runner) processSession(ctx context.Context, session matcher.Session) unitResult {
	fingerprint := dedup.Fingerprint(session)
	ctx = services.WithSessionID(ctx, session.ID)
	logger := r.logger.With(
		logging.String("session", session.Metadata.Discriminator),
		logging.String("fingerprint", fingerprint[:12]),
	)

	checkpoint := func(stage string) {
		err := r.store.SaveCheckpoint(ctx, queue.Checkpoint{
			Fingerprint: fingerprint,
			SessionID:   session.ID,
			Stage:       stage,
		})
		if err != nil {
			logger.Warn("checkpoint write failed", logging.String("stage", stage), logging.Error(err))
		}
	}
	checkpoint(queue.StageMatched)

	// Identity resolution.
	content := loadContent(session)
	meeting := meetingInfo(session, content)
	identity := r.resolver.Resolve(ctx, session, meeting, content)
	checkpoint(queue.StageIdentified)

	if !identity.Coach.Present() && !identity.Student.Present() {
		logger.Warn("session unidentified", logging.Int("overall", identity.Overall))
		if err := r.notifier.NotifyUnidentifiedSession(ctx, sessionLabel(session, identity)); err != nil {
			logger.Warn("unidentified notification failed", logging.Error(err))
		}
	}

	// Week placement.
	if identity.Student.Present() {
		week, err := r.weeks.ResolveWeek(ctx, weekinfer.Request{
			Student:     identity.Student.Value,
			Coach:       identity.Coach.Value,
			SessionDate: session.Metadata.StartTime,
			HintedWeek:  identity.WeekNumber,
		})
		switch {
		case err == nil:
			identity.WeekNumber = week.Number
			identity.Evidence = append(identity.Evidence,
				fmt.Sprintf("week=%d (%d) via %s", week.Number, week.Confidence, week.Method))
		case errors.Is(err, services.ErrNotFound):
			logger.Debug("no week placement available", logging.Error(err))
		default:
			logger.Warn("week resolution failed, keeping hint",
				logging.Int("hint", identity.WeekNumber), logging.Error(err))
		}
	}

	// Categorization.
	topic := meeting.Topic
	if topic == "" {
		// No sidecar: the folder name stands in for the topic in rule matching.
		topic = session.Metadata.FolderName
	}
	category := r.categorizer.Categorize(identity, categorize.Meta{
		Topic:           topic,
		HostName:        meeting.HostName,
		HostEmail:       meeting.HostEmail,
		DurationMinutes: meeting.DurationMinutes,
	})
	checkpoint(queue.StageCategorized)

	// Final dedup check right before the expensive transfer.
	if dup, err := r.gate.IsDuplicate(ctx, fingerprint); err != nil {
		return unitResult{outcome: outcomeFailed, err: fmt.Errorf("dedup check: %w", err)}
	} else if dup {
		logger.Info("duplicate session skipped")
		if err := r.notifier.NotifyDuplicateSkipped(ctx, sessionLabel(session, identity)); err != nil {
			logger.Warn("duplicate notification failed", logging.Error(err))
		}
		return unitResult{outcome: outcomeSkipped}
	}

	// Transfer.
	stagedDir, transferred, degraded, err := r.transferSession(ctx, session, identity)
	if err != nil {
		if notifyErr := r.notifier.NotifyError(ctx, err, "transfer"); notifyErr != nil {
			logger.Warn("error notification failed", logging.Error(notifyErr))
		}
		return unitResult{outcome: outcomeFailed, err: err}
	}
	checkpoint(queue.StageTransferred)

	// Record.
	record := &queue.Record{
		Fingerprint:       fingerprint,
		SessionID:         session.ID,
		Coach:             identity.Coach.Value,
		Student:           identity.Student.Value,
		Week:              identity.WeekNumber,
		Category:          string(category),
		SessionType:       identity.SessionType.Value,
		Confidence:        identity.Overall,
		StartTime:         session.Metadata.StartTime,
		TotalSize:         session.Metadata.TotalSize,
		FileCount:         len(session.Files),
		StagedPath:        stagedDir,
		Degraded:          degraded,
		ProcessingVersion: ProcessingVersion,
		Evidence:          identity.Evidence,
		Files:             transferred,
	}
	if err := r.store.AppendRecord(ctx, record); err != nil {
		if errors.Is(err, queue.ErrDuplicateRecord) {
			// Another worker or process won the race after our gate check.
			logger.Info("duplicate session skipped at write")
			return unitResult{outcome: outcomeSkipped}
		}
		return unitResult{outcome: outcomeFailed, err: fmt.Errorf("append record: %w", err)}
	}

	if err := r.store.ClearCheckpoint(ctx, fingerprint); err != nil {
		logger.Warn("checkpoint clear failed", logging.Error(err))
	}

	logger.Info("session recorded",
		logging.String("coach", record.Coach),
		logging.String("student", record.Student),
		logging.Int("week", record.Week),
		logging.String("category", record.Category),
		logging.Int("confidence", record.Confidence),
		logging.Bool("degraded", degraded),
	)
	return unitResult{outcome: outcomeSucceeded, degraded: degraded}
}

// transferSession copies every session file into its staging folder with a
// bounded fan-out. One failed file marks the session degraded; a session
// where no media file lands is a hard failure.
func (r *Runner) transferSession(ctx context.Context, session matcher.Session, identity identify.Identity) (string, []string, bool, error) {
	dir := filepath.Join(r.cfg.Paths.StagingDir, fileutil.SafeDirName(sessionLabel(session, identity)))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, false, services.Wrap(services.ErrTransient, "pipeline", "transfer", "create staging directory", err)
	}

	policy := services.RetryPolicy{
		Attempts:  r.cfg.Pipeline.RetryAttempts,
		BaseDelay: time.Duration(r.cfg.Pipeline.RetryBaseSeconds) * time.Second,
		MaxDelay:  time.Duration(r.cfg.Pipeline.RetryMaxSeconds) * time.Second,
	}

	limit := r.cfg.Pipeline.TransferConcurrency
	if limit < 1 {
		limit = 1
	}
	sem := make(chan struct{}, limit)

	var mu sync.Mutex
	var transferred []string
	var failures []string

	names := stagingNames(session.Files)

	var wg sync.WaitGroup
	for i, file := range session.Files {
		i, file := i, file
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			dest := filepath.Join(dir, names[i])
			err := services.Retry(ctx, policy, func(ctx context.Context) error {
				return r.source.Download(ctx, file, dest)
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, names[i])
				r.logger.Warn("file transfer failed",
					logging.String("file", file.Name), logging.Error(err))
				return
			}
			transferred = append(transferred, names[i])
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return dir, transferred, false, err
	}

	mediaLanded := false
	for _, name := range transferred {
		if recording.ClassifyFileType(name).IsMedia() {
			mediaLanded = true
			break
		}
	}
	if !mediaLanded {
		return dir, transferred, false, services.Wrap(services.ErrTransient, "pipeline", "transfer",
			fmt.Sprintf("no media file transferred (%d failures)", len(failures)), nil)
	}
	return dir, transferred, len(failures) > 0, nil
}

// stagingNames assigns each session file its destination name inside the
// staging folder. A base name repeated across subfolders falls back to the
// flattened root-relative ID so siblings never overwrite each other.
func stagingNames(files []recording.RawFile) []string {
	counts := make(map[string]int, len(files))
	for _, f := range files {
		counts[strings.ToLower(f.Name)]++
	}
	names := make([]string, len(files))
	for i, f := range files {
		if counts[strings.ToLower(f.Name)] > 1 && f.ID != "" {
			names[i] = fileutil.SafeDirName(f.ID)
		} else {
			names[i] = f.Name
		}
	}
	return names
}

// sessionLabel builds a human-facing name for a session, preferring the
// resolved identity over the raw discriminator.
func sessionLabel(session matcher.Session, identity identify.Identity) string {
	var parts []string
	if identity.Coach.Present() {
		parts = append(parts, identity.Coach.Value)
	}
	if identity.Student.Present() {
		parts = append(parts, identity.Student.Value)
	}
	label := strings.Join(parts, " - ")
	if identity.WeekNumber > 0 {
		label = fmt.Sprintf("%s Week %d", label, identity.WeekNumber)
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = session.Metadata.Discriminator
	}
	if label == "" {
		label = session.ID
	}
	return label
}
