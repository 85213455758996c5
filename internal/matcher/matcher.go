package matcher

import (
	"log/slog"

	"rollcall/internal/logging"
	"rollcall/internal/recording"
)

// Matcher partitions scanned files into sessions.
type Matcher struct {
	threshold float64
	logger    *slog.Logger
}

// Option customizes matcher construction.
type Option func(*Matcher)

// WithThreshold overrides the default merge threshold.
func WithThreshold(threshold float64) Option {
	return func(m *Matcher) {
		if threshold > 0 && threshold <= 1 {
			m.threshold = threshold
		}
	}
}

// New constructs a Matcher. A nil logger falls back to a no-op logger.
func New(logger *slog.Logger, opts ...Option) *Matcher {
	m := &Matcher{
		threshold: DefaultThreshold,
		logger:    logging.NewComponentLogger(logger, "matcher"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MatchRecordings partitions files into sessions with a left-to-right greedy
// sweep. Every input file lands in exactly one session; sessions without any
// media file are returned separately with a reason instead of being dropped.
func (m *Matcher) MatchRecordings(files []recording.RawFile) ([]Session, []InvalidSession) {
	assigned := make([]bool, len(files))
	var sessions []Session
	var invalid []InvalidSession

	for i := range files {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		seed := files[i]
		members := []recording.RawFile{seed}

		var scoreSum float64
		var joined int
		for j := i + 1; j < len(files); j++ {
			if assigned[j] {
				continue
			}
			score, hits := Score(seed, files[j])
			if score < m.threshold {
				continue
			}
			assigned[j] = true
			members = append(members, files[j])
			scoreSum += score
			joined++

			m.logger.Debug("file joined session",
				logging.String("seed", seed.Name),
				logging.String("file", files[j].Name),
				logging.Float64("score", score),
				logging.Int("rules", len(hits)),
			)
		}

		confidence := 1.0
		if joined > 0 {
			confidence = min(scoreSum/float64(joined), 1.0)
		}
		session := newSession(members, confidence)

		if !session.HasMedia() {
			invalid = append(invalid, InvalidSession{
				Session: session,
				Reason:  "no video or audio file in group",
			})
			continue
		}
		sessions = append(sessions, session)
	}

	m.logger.Info("matched recordings",
		logging.Int("files", len(files)),
		logging.Int("sessions", len(sessions)),
		logging.Int("invalid", len(invalid)),
	)
	return sessions, invalid
}
