// Package engine implements BECOME's progression rules: XP and levels per
// identity, quest state transitions, streak counters and sticky badge unlocks.
//
// The engine performs no I/O. Every operation takes a Snapshot by value and
// returns a fresh Result; persistence and presentation belong to callers.
package engine

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies the current time. Tests inject a fixed clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

type Engine struct {
	clock Clock
	newID func() string
	loc   *time.Location
}

type Option func(*Engine)

func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithLocation sets the timezone used to decide calendar-day boundaries.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{
		clock: systemClock{},
		newID: uuid.NewString,
		loc:   time.Local,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) now() time.Time {
	return e.clock.Now().In(e.loc)
}

// Now exposes the engine's clock in its configured location.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Result is the outcome of a successful engine operation.
type Result struct {
	Snapshot Snapshot `json:"snapshot"`
	Awards   []Award  `json:"awards"`
	// CreatedID is set by operations that create an identity, quest or log.
	CreatedID string `json:"createdId,omitempty"`
	// CreatedIDs lists every record a batch operation created, in input order.
	CreatedIDs []string `json:"createdIds,omitempty"`
}

// Location is the timezone used for calendar-day boundaries.
func (e *Engine) Location() *time.Location {
	return e.loc
}
