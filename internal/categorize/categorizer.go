package categorize

import (
	"strings"

	"rollcall/internal/identify"
)

// Category is the final filing decision for a session.
type Category string

const (
	CategoryCoaching Category = "Coaching"
	CategoryMISC     Category = "MISC"
	CategoryTrivial  Category = "Trivial"
)

// Meta is the raw session context the rules consult alongside the identity.
type Meta struct {
	Topic           string
	HostName        string
	HostEmail       string
	DurationMinutes int
}

// placeholders are values that look filled but carry no identity.
var placeholders = map[string]struct{}{
	"unknown": {},
	"n/a":     {},
	"na":      {},
	"null":    {},
	"none":    {},
	"-":       {},
	"tbd":     {},
}

// Valid reports whether a resolved value is usable: non-empty, non-blank,
// and not a placeholder.
func Valid(value string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return false
	}
	_, placeholder := placeholders[trimmed]
	return !placeholder
}

// Categorizer applies the ordered rule table. The alias table supplies the
// administrative-account indicators.
type Categorizer struct {
	aliases        *identify.AliasTable
	trivialMinutes int
}

// Option customizes categorizer construction.
type Option func(*Categorizer)

// WithTrivialFloor marks resolved coaching sessions shorter than the given
// duration as Trivial. Zero disables the floor.
func WithTrivialFloor(minutes int) Option {
	return func(c *Categorizer) {
		if minutes >= 0 {
			c.trivialMinutes = minutes
		}
	}
}

// New constructs a Categorizer around the injected alias table.
func New(aliases *identify.AliasTable, opts ...Option) *Categorizer {
	c := &Categorizer{aliases: aliases}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Categorize maps an identity to a category. Total: every input yields
// exactly one of Coaching, MISC, or Trivial.
func (c *Categorizer) Categorize(id identify.Identity, meta Meta) Category {
	coachValid := Valid(id.Coach.Value)
	studentValid := Valid(id.Student.Value)

	// Rule 1: a full coach/student pair is a coaching session, length permitting.
	if coachValid && studentValid {
		return c.coachingOrTrivial(meta)
	}

	// Rule 2: administrative accounts without a student are never coaching.
	if !studentValid && c.adminIndicator(id, meta) {
		return CategoryMISC
	}

	// Rule 3: a coach in their personal meeting room is coaching even when
	// the roster gave us no student.
	if coachValid && personalRoomTopic(meta.Topic) {
		return c.coachingOrTrivial(meta)
	}

	// Rule 4: a valid coach alone still counts as coaching.
	if coachValid {
		return c.coachingOrTrivial(meta)
	}

	// Rule 5: nothing identifiable.
	return CategoryMISC
}

func (c *Categorizer) coachingOrTrivial(meta Meta) Category {
	if c.trivialMinutes > 0 && meta.DurationMinutes > 0 && meta.DurationMinutes < c.trivialMinutes {
		return CategoryTrivial
	}
	return CategoryCoaching
}

func (c *Categorizer) adminIndicator(id identify.Identity, meta Meta) bool {
	return c.aliases.IsAdminIndicator(meta.HostEmail) ||
		c.aliases.IsAdminIndicator(meta.HostName) ||
		c.aliases.IsAdminIndicator(meta.Topic) ||
		c.aliases.IsAdminIndicator(id.Coach.Value)
}

func personalRoomTopic(topic string) bool {
	return strings.Contains(strings.ToLower(topic), "personal meeting room")
}
