// Package clock supplies "now" to the review engine.
//
// A Clock returns wall-clock time in UTC until it is overridden with a fixed
// instant, which it then returns until the override is cleared. Overrides make
// due-date arithmetic testable and let a learner review "as of" another day.
//
// Each Clock is independent. Sessions that share one Clock observe the same
// override; callers needing isolation use separate instances.
package clock

import (
	"sync"
	"time"
)

// Clock is an overridable source of the current instant.
//
// Thread-safety: Clock is safe for concurrent use via internal mutex.
type Clock struct {
	mu       sync.Mutex
	wall     func() time.Time
	loc      *time.Location
	override *time.Time
}

// Option configures a Clock.
type Option func(*Clock)

// WithLocation sets the calendar location used to interpret override
// strings. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(c *Clock) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithWallClock replaces the real-time source. Used by tests.
func WithWallClock(fn func() time.Time) Option {
	return func(c *Clock) {
		if fn != nil {
			c.wall = fn
		}
	}
}

// New creates a clock that tracks real time.
func New(opts ...Option) *Clock {
	c := &Clock{
		wall: time.Now,
		loc:  time.Local,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fixed creates a clock already overridden to t.
func Fixed(t time.Time, opts ...Option) *Clock {
	c := New(opts...)
	c.Override(t)
	return c
}

// Now returns the override instant if set, otherwise wall-clock time.
// The result is always in UTC.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.override != nil {
		return *c.override
	}
	return c.wall().UTC()
}

// Override makes every later Now call return t (in UTC) until ClearOverride.
func (c *Clock) Override(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := t.UTC()
	c.override = &v
}

// ClearOverride resumes returning wall-clock time.
func (c *Clock) ClearOverride() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.override = nil
}

// IsOverridden reports whether an override is active.
func (c *Clock) IsOverridden() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.override != nil
}

// Location returns the location used to interpret override strings.
func (c *Clock) Location() *time.Location {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loc
}
