// Package policy defines the scheduling-policy contract used by the review
// engine, and ships two implementations: FSRS-6 (the default) and SM-2.
//
// A policy is treated as a pure function of (prior state, rating, now). The
// engine never inspects how a policy computes difficulty or stability; it only
// persists what the policy returns.
package policy

import (
	"errors"
	"fmt"
	"time"

	"github.com/roach88/memento/internal/model"
)

// Policy computes the next memory state of an item after one review.
//
// Implementations must accept any valid prior state, including the
// model.NewState() sentinel, and must be deterministic for a given
// (prior, rating, now).
type Policy interface {
	Name() string
	ReviewCard(prior model.ReconstructedState, rating model.Rating, now time.Time) (Outcome, error)
}

// Outcome is the result of one review as decided by a policy.
// Due is nil when the policy decides the item needs no further review.
type Outcome struct {
	State      model.State
	Step       *int
	Difficulty *float64
	Stability  *float64
	Due        *time.Time
}

// Interval returns the time between now and the computed due instant,
// or zero when no due instant was computed.
func (o Outcome) Interval(now time.Time) time.Duration {
	if o.Due == nil {
		return 0
	}
	return o.Due.Sub(now)
}

// Policy names accepted by New.
const (
	NameFSRS = "fsrs"
	NameSM2  = "sm2"
)

// ErrUnknownPolicy is returned by New for unrecognized names.
var ErrUnknownPolicy = errors.New("unknown scheduling policy")

// Config selects and configures a policy.
type Config struct {
	Name string
	FSRS FSRSConfig
	SM2  SM2Config
}

// New builds the policy named by cfg.Name. An empty name selects FSRS.
func New(cfg Config) (Policy, error) {
	switch cfg.Name {
	case "", NameFSRS:
		return NewFSRS(cfg.FSRS)
	case NameSM2:
		return NewSM2(cfg.SM2)
	default:
		return nil, fmt.Errorf("%w: %q (want %q or %q)", ErrUnknownPolicy, cfg.Name, NameFSRS, NameSM2)
	}
}

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}

func timePtr(t time.Time) *time.Time {
	v := t.UTC()
	return &v
}
