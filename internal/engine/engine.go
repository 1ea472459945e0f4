package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/memento/internal/model"
	"github.com/roach88/memento/internal/policy"
	"github.com/roach88/memento/internal/store"
)

// HistoryLog is the subset of the store the engine reads and appends to.
// Implemented by *store.Store.
type HistoryLog interface {
	Snapshot(ctx context.Context, ownerID string) ([]store.ItemState, error)
	ReconstructState(ctx context.Context, itemID int64) (model.ReconstructedState, error)
	AppendHistory(ctx context.Context, entry model.HistoryEntry) (int64, error)
}

// Clock supplies the current instant. Implemented by *clock.Clock.
type Clock interface {
	Now() time.Time
}

// Engine runs review sessions against a history log.
//
// Thread-safety: an Engine holds no per-session state and may run several
// sessions concurrently. The store serializes their appends.
type Engine struct {
	log      HistoryLog
	clock    Clock
	policy   policy.Policy
	sessions SessionIDGenerator
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSessionIDs replaces the UUIDv7 session ID generator.
func WithSessionIDs(gen SessionIDGenerator) Option {
	return func(e *Engine) {
		e.sessions = gen
	}
}

// WithLogger sets the logger used for session progress.
// Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine.
//
// The policy is called once per graded item and is never consulted for
// selection; selection depends on persisted due instants only.
func New(log HistoryLog, clk Clock, p policy.Policy, opts ...Option) *Engine {
	e := &Engine{
		log:      log,
		clock:    clk,
		policy:   p,
		sessions: UUIDv7Generator{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the scheduling policy in use.
func (e *Engine) Policy() policy.Policy {
	return e.policy
}

// Now returns the engine clock's current instant.
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}
