package identify

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"rollcall/internal/logging"
	"rollcall/internal/matcher"
)

// Participant is one roster entry from the meeting provider.
type Participant struct {
	Name  string
	Email string
}

// MeetingInfo is the provider-side metadata known for a session before any
// content is read. All fields are optional.
type MeetingInfo struct {
	Topic           string
	HostName        string
	HostEmail       string
	Participants    []Participant
	StartTime       time.Time
	DurationMinutes int
}

// StandardizedName is the reply of the external name-standardization
// collaborator. It owns free-text canonicalization, including resolving one
// shared login to the student actually present.
type StandardizedName struct {
	Standardized string
	Confidence   int
	Method       string
}

// Standardizer is the narrow interface the resolver needs from the external
// name-standardization service.
type Standardizer interface {
	Standardize(ctx context.Context, raw, roleHint string) (StandardizedName, error)
}

// Identity is the resolved canonical identity of one session.
type Identity struct {
	Coach           Result
	Student         Result
	Week            Result
	SessionType     Result
	ProgramDuration Result

	WeekNumber int
	Overall    int
	Evidence   []string
}

// Resolver fuses extraction sources into session identities. Construct once
// per run; safe for concurrent use.
type Resolver struct {
	aliases        *AliasTable
	standardizer   Standardizer
	topicPatterns  []Pattern
	folderPatterns []Pattern
	logger         *slog.Logger
}

// NewResolver constructs a resolver around the injected alias table and name
// standardizer. A nil standardizer skips canonicalization.
func NewResolver(aliases *AliasTable, standardizer Standardizer, logger *slog.Logger) *Resolver {
	return &Resolver{
		aliases:        aliases,
		standardizer:   standardizer,
		topicPatterns:  TopicPatterns(),
		folderPatterns: FolderPatterns(),
		logger:         logging.NewComponentLogger(logger, "identify"),
	}
}

// Resolve computes the identity for one session. Sources are consulted in
// strict priority order; no source ever downgrades a field. Ambiguity
// resolves to a value with low confidence rather than an error because every
// downstream consumer needs a value.
func (r *Resolver) Resolve(ctx context.Context, session matcher.Session, meeting MeetingInfo, content ContentBundle) Identity {
	var id Identity

	r.applyContent(&id, content)
	r.applyParticipants(&id, meeting)
	r.applyHost(&id, meeting)
	r.applyTopic(&id, meeting.Topic)
	r.applyFolder(&id, session.Metadata.FolderName)
	r.applySessionHints(&id, session)
	r.standardizeNames(ctx, &id)
	r.applyTypeDefaults(&id)

	if id.Week.Present() {
		id.WeekNumber, _ = strconv.Atoi(id.Week.Value)
	}
	id.Overall = overallConfidence(id)

	r.logger.Info("resolved session identity",
		logging.String("session", session.ID),
		logging.String("coach", id.Coach.Value),
		logging.String("student", id.Student.Value),
		logging.Int("week", id.WeekNumber),
		logging.String("session_type", id.SessionType.Value),
		logging.Int("overall", id.Overall),
	)
	return id
}

// applyContent folds in file-content extractions (transcript > timeline >
// structured metadata > chat) with corroboration bonuses.
func (r *Resolver) applyContent(id *Identity, content ContentBundle) {
	sources := extractContentSources(content)
	if len(sources) == 0 {
		return
	}

	coachVotes := map[string]*vote{}
	studentVotes := map[string]*vote{}

	for _, src := range sources {
		var coach string
		for _, speaker := range src.speakers {
			if display, _, ok := r.aliases.Lookup(speaker); ok {
				coach = display
				break
			}
		}
		if coach != "" {
			key := strings.ToLower(coach)
			v := coachVotes[key]
			if v == nil {
				v = &vote{value: coach}
				coachVotes[key] = v
			}
			v.kinds = append(v.kinds, src.kind)
			if src.confidence > v.confidence {
				v.confidence = src.confidence
			}
		}

		for _, speaker := range src.speakers {
			if r.aliases.IsStaff(speaker) {
				continue
			}
			if _, _, ok := r.aliases.Lookup(speaker); ok {
				continue
			}
			key := strings.ToLower(speaker)
			v := studentVotes[key]
			if v == nil {
				v = &vote{value: speaker}
				studentVotes[key] = v
			}
			v.kinds = append(v.kinds, src.kind)
			if src.confidence > v.confidence {
				v.confidence = src.confidence
			}
			break
		}

		if src.week > 0 {
			r.accept(id, &id.Week, Result{
				Value:      strconv.Itoa(src.week),
				Confidence: src.confidence,
				Source:     SourceContent,
			}, "week", src.kind)
		}
	}

	if best := bestVote(coachVotes); best != nil {
		conf := clampConfidence(best.confidence + corroborationStep*(len(best.kinds)-1))
		r.accept(id, &id.Coach, Result{
			Value:      best.value,
			Confidence: conf,
			Source:     SourceContent,
		}, "coach", strings.Join(best.kinds, "+"))
	}
	if best := bestVote(studentVotes); best != nil {
		conf := clampConfidence(best.confidence + corroborationStep*(len(best.kinds)-1))
		r.accept(id, &id.Student, Result{
			Value:      best.value,
			Confidence: conf,
			Source:     SourceContent,
		}, "student", strings.Join(best.kinds, "+"))
	}
}

// applyParticipants matches the roster against the alias table: a coach hit
// scores 90-100 by match strength, the first remaining non-staff participant
// becomes the student candidate at 85.
func (r *Resolver) applyParticipants(id *Identity, meeting MeetingInfo) {
	for _, p := range meeting.Participants {
		display, exact, ok := lookupEither(r.aliases, p.Email, p.Name)
		if !ok {
			continue
		}
		conf := 90
		if exact {
			conf = 95
			if p.Email != "" {
				if _, emailExact, emailOK := r.aliases.Lookup(p.Email); emailOK && emailExact {
					conf = 100
				}
			}
		}
		r.accept(id, &id.Coach, Result{
			Value:      display,
			Confidence: conf,
			Source:     SourceParticipants,
		}, "coach", "roster alias match")
		break
	}

	for _, p := range meeting.Participants {
		if r.aliases.IsStaff(p.Name) || r.aliases.IsStaff(p.Email) {
			continue
		}
		if _, _, ok := lookupEither(r.aliases, p.Email, p.Name); ok {
			continue
		}
		name := strings.TrimSpace(p.Name)
		if name == "" {
			name = strings.TrimSpace(p.Email)
		}
		if name == "" {
			continue
		}
		r.accept(id, &id.Student, Result{
			Value:      name,
			Confidence: 85,
			Source:     SourceParticipants,
		}, "student", "first non-staff roster entry")
		break
	}
}

// applyHost scores 100 on an exact host alias hit.
func (r *Resolver) applyHost(id *Identity, meeting MeetingInfo) {
	display, exact, ok := lookupEither(r.aliases, meeting.HostEmail, meeting.HostName)
	if !ok || !exact {
		return
	}
	r.accept(id, &id.Coach, Result{
		Value:      display,
		Confidence: 100,
		Source:     SourceHost,
	}, "coach", "exact host alias hit")
}

// applyTopic runs the ordered topic pattern library against the meeting title.
func (r *Resolver) applyTopic(id *Identity, topic string) {
	ext, ok := Match(r.topicPatterns, topic)
	if !ok {
		return
	}
	r.applyExtraction(id, ext, SourceTopic, 100, "topic pattern "+ext.Pattern)
}

// applyFolder runs the folder pattern library; folder naming never scores
// above 80.
func (r *Resolver) applyFolder(id *Identity, folderName string) {
	ext, ok := Match(r.folderPatterns, folderName)
	if !ok {
		return
	}
	r.applyExtraction(id, ext, SourceFolder, 80, "folder pattern "+ext.Pattern)
}

// applySessionHints folds in week hints mined from file names during the scan.
func (r *Resolver) applySessionHints(id *Identity, session matcher.Session) {
	if session.Metadata.Week > 0 {
		r.accept(id, &id.Week, Result{
			Value:      strconv.Itoa(session.Metadata.Week),
			Confidence: 70,
			Source:     SourceFolder,
		}, "week", "file name marker")
	}
}

func (r *Resolver) applyExtraction(id *Identity, ext Extraction, source Source, ceiling int, detail string) {
	conf := min(ext.Confidence, ceiling)

	coach, student := ext.Coach, ext.Student
	if ext.NeedsResolution && ext.FirstName != "" && ext.SecondName != "" {
		var how string
		coach, student, how = resolveNamePair(ext.FirstName, ext.SecondName, id.Coach.Value, r.aliases)
		detail += ", " + how
	}

	if coach != "" {
		r.accept(id, &id.Coach, Result{Value: coach, Confidence: conf, Source: source}, "coach", detail)
	}
	if student != "" {
		r.accept(id, &id.Student, Result{Value: student, Confidence: conf, Source: source}, "student", detail)
	}
	if ext.Week > 0 {
		r.accept(id, &id.Week, Result{Value: strconv.Itoa(ext.Week), Confidence: conf, Source: source}, "week", detail)
	}
	if ext.ProgramWeeks > 0 {
		r.accept(id, &id.ProgramDuration, Result{Value: strconv.Itoa(ext.ProgramWeeks), Confidence: conf, Source: source}, "program_duration", detail)
	}
	if ext.SessionType != "" {
		r.accept(id, &id.SessionType, Result{Value: ext.SessionType, Confidence: conf, Source: source}, "session_type", detail)
	}
}

// standardizeNames delegates free-text canonicalization to the external
// collaborator, preferring its answer whenever its confidence is not lower
// than the raw extraction's.
func (r *Resolver) standardizeNames(ctx context.Context, id *Identity) {
	if r.standardizer == nil {
		return
	}
	for _, target := range []struct {
		field *Result
		role  string
	}{
		{&id.Coach, "coach"},
		{&id.Student, "student"},
	} {
		if !target.field.Present() {
			continue
		}
		std, err := r.standardizer.Standardize(ctx, target.field.Value, target.role)
		if err != nil {
			r.logger.Warn("name standardization unavailable",
				logging.String("role", target.role),
				logging.Error(err),
			)
			continue
		}
		if std.Standardized == "" || std.Confidence < target.field.Confidence {
			continue
		}
		if std.Standardized != target.field.Value {
			id.Evidence = append(id.Evidence, evidence(target.field.Source, target.role,
				std.Standardized, std.Confidence, "standardized from "+strconv.Quote(target.field.Value)+" by "+std.Method))
		}
		target.field.Value = std.Standardized
		target.field.Confidence = std.Confidence
	}
}

// applyTypeDefaults fills the session type when no explicit keyword set it:
// Coaching when both roles resolved, Admin when no student resolved.
func (r *Resolver) applyTypeDefaults(id *Identity) {
	switch {
	case id.Coach.Present() && id.Student.Present():
		r.accept(id, &id.SessionType, Result{
			Value: "Coaching", Confidence: 60, Source: SourceNone,
		}, "session_type", "default: coach and student resolved")
	case !id.Student.Present():
		r.accept(id, &id.SessionType, Result{
			Value: "Admin", Confidence: 60, Source: SourceNone,
		}, "session_type", "default: no student resolved")
	default:
		r.accept(id, &id.SessionType, Result{
			Value: "Coaching", Confidence: 50, Source: SourceNone,
		}, "session_type", "default: student without coach")
	}
}

func (r *Resolver) accept(id *Identity, field *Result, candidate Result, name, detail string) {
	candidate.Confidence = clampConfidence(candidate.Confidence)
	line := evidence(candidate.Source, name, candidate.Value, candidate.Confidence, detail)
	candidate.Evidence = append(append([]string(nil), field.Evidence...), line)
	if field.apply(candidate) {
		id.Evidence = append(id.Evidence, line)
	}
}

func lookupEither(aliases *AliasTable, email, name string) (display string, exact, ok bool) {
	if email != "" {
		if display, exact, ok = aliases.Lookup(email); ok {
			return display, exact, true
		}
	}
	if name != "" {
		if display, exact, ok = aliases.Lookup(name); ok {
			return display, exact, true
		}
	}
	return "", false, false
}

// vote accumulates one candidate value across content sources.
type vote struct {
	value      string
	confidence int
	kinds      []string
}

// bestVote picks the candidate with the highest confidence, breaking ties by
// corroboration count and then lexically for determinism.
func bestVote(votes map[string]*vote) *vote {
	var best *vote
	for _, v := range votes {
		switch {
		case best == nil,
			v.confidence > best.confidence,
			v.confidence == best.confidence && len(v.kinds) > len(best.kinds),
			v.confidence == best.confidence && len(v.kinds) == len(best.kinds) && v.value < best.value:
			best = v
		}
	}
	return best
}
