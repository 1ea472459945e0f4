package policy

import (
	"fmt"
	"math"
	"time"

	"github.com/roach88/memento/internal/model"
)

// SM-2 defaults.
const (
	DefaultInitialEase = 2.5
	minimumEase        = 1.3
)

// SM2Config configures the SM-2 policy.
type SM2Config struct {
	InitialEase float64 // zero → 2.5
}

// SM2 schedules reviews with the classic SM-2 algorithm.
//
// SM-2 state maps onto the history fields as: Difficulty holds the ease
// factor, Stability holds the current interval in days, and Step counts
// consecutive successful repetitions.
type SM2 struct {
	initialEase float64
}

var _ Policy = (*SM2)(nil)

// NewSM2 creates an SM-2 policy.
func NewSM2(cfg SM2Config) (*SM2, error) {
	ease := cfg.InitialEase
	if ease == 0 {
		ease = DefaultInitialEase
	}
	if ease < minimumEase {
		return nil, fmt.Errorf("sm2: initial ease %f below minimum %f", ease, minimumEase)
	}
	return &SM2{initialEase: ease}, nil
}

// Name implements Policy.
func (p *SM2) Name() string {
	return NameSM2
}

// quality maps a 1-4 rating onto the 0-5 SM-2 quality scale.
func quality(r model.Rating) float64 {
	switch r {
	case model.Again:
		return 1
	case model.Hard:
		return 3
	case model.Good:
		return 4
	default:
		return 5
	}
}

// ReviewCard implements Policy.
func (p *SM2) ReviewCard(prior model.ReconstructedState, rating model.Rating, now time.Time) (Outcome, error) {
	if !rating.IsValid() {
		return Outcome{}, fmt.Errorf("sm2: %w: %d", model.ErrInvalidGrade, int(rating))
	}

	ease := p.initialEase
	if prior.Difficulty != nil {
		ease = *prior.Difficulty
	}
	interval := 0
	if prior.Stability != nil {
		interval = int(*prior.Stability)
	}
	reps := 0
	if prior.Step != nil {
		reps = *prior.Step
	}

	q := quality(rating)
	ease += 0.1 - (5-q)*(0.08+(5-q)*0.02)
	if ease < minimumEase {
		ease = minimumEase
	}

	state := model.Review
	if q < 3 {
		reps = 0
		interval = 1
		state = model.Learning
		if prior.State == model.Review || prior.State == model.Relearning {
			state = model.Relearning
		}
	} else {
		reps++
		switch reps {
		case 1:
			interval = 1
		case 2:
			interval = 6
		default:
			interval = int(math.Ceil(float64(interval) * ease))
		}
	}

	return Outcome{
		State:      state,
		Step:       intPtr(reps),
		Difficulty: floatPtr(ease),
		Stability:  floatPtr(float64(interval)),
		Due:        timePtr(now.AddDate(0, 0, interval)),
	}, nil
}
