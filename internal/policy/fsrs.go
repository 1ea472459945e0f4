package policy

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/roach88/memento/internal/model"
)

// FSRSConfig configures the FSRS policy.
// Zero values produce defaults; see field comments.
type FSRSConfig struct {
	Weights          [21]float64     // zero → DefaultWeights
	DesiredRetention float64         // zero → 0.9
	LearningSteps    []time.Duration // nil → [1m, 10m]; empty → no steps
	RelearningSteps  []time.Duration // nil → [10m]; empty → no steps
	MaximumInterval  int             // days; zero → 36500
	DisableFuzzing   bool
}

// FSRS schedules reviews with the FSRS-6 memory model.
//
// Interval fuzzing draws from a generator seeded with the review instant, so
// the same (prior, rating, now) always yields the same outcome.
type FSRS struct {
	model            memoryModel
	desiredRetention float64
	learningSteps    []time.Duration
	relearningSteps  []time.Duration
	maximumInterval  int
	disableFuzzing   bool
}

var _ Policy = (*FSRS)(nil)

// NewFSRS creates an FSRS policy from cfg.
func NewFSRS(cfg FSRSConfig) (*FSRS, error) {
	w := cfg.Weights
	if w == [21]float64{} {
		w = DefaultWeights
	}
	if err := ValidateWeights(w); err != nil {
		return nil, err
	}

	retention := cfg.DesiredRetention
	if retention == 0 {
		retention = 0.9
	}
	if retention <= 0 || retention > 1 {
		return nil, fmt.Errorf("fsrs: desired retention %f out of range (0, 1]", retention)
	}

	maxIvl := cfg.MaximumInterval
	if maxIvl == 0 {
		maxIvl = 36500
	}
	if maxIvl < 0 {
		return nil, fmt.Errorf("fsrs: maximum interval %d must be positive", maxIvl)
	}

	learning := cfg.LearningSteps
	if learning == nil {
		learning = []time.Duration{time.Minute, 10 * time.Minute}
	}
	relearning := cfg.RelearningSteps
	if relearning == nil {
		relearning = []time.Duration{10 * time.Minute}
	}

	return &FSRS{
		model:            newMemoryModel(w),
		desiredRetention: retention,
		learningSteps:    learning,
		relearningSteps:  relearning,
		maximumInterval:  maxIvl,
		disableFuzzing:   cfg.DisableFuzzing,
	}, nil
}

// Name implements Policy.
func (f *FSRS) Name() string {
	return NameFSRS
}

// card is the mutable working copy of a state during one review.
type card struct {
	state      model.State
	step       *int
	difficulty *float64
	stability  *float64
}

// ReviewCard implements Policy.
func (f *FSRS) ReviewCard(prior model.ReconstructedState, rating model.Rating, now time.Time) (Outcome, error) {
	if !rating.IsValid() {
		return Outcome{}, fmt.Errorf("fsrs: %w: %d", model.ErrInvalidGrade, int(rating))
	}
	now = now.UTC()

	c := card{
		state:      prior.State,
		step:       prior.Step,
		difficulty: prior.Difficulty,
		stability:  prior.Stability,
	}
	if c.state == model.New {
		c.state = model.Learning
		c.step = intPtr(0)
	}

	var elapsedDays float64
	if prior.LastReview != nil {
		elapsedDays = now.Sub(*prior.LastReview).Hours() / 24.0
	}

	f.updateMemory(&c, float64(rating), elapsedDays)
	interval := f.transition(&c, rating)

	if !f.disableFuzzing && c.state == model.Review {
		days := int(interval.Hours() / 24.0)
		if days > 0 {
			u := rand.New(rand.NewSource(now.UnixNano())).Float64()
			interval = time.Duration(fuzzDays(days, f.maximumInterval, u)) * 24 * time.Hour
		}
	}

	return Outcome{
		State:      c.state,
		Step:       c.step,
		Difficulty: c.difficulty,
		Stability:  c.stability,
		Due:        timePtr(now.Add(interval)),
	}, nil
}

// Retrievability returns the recall probability of an item at now.
// Returns 0 for items never reviewed.
func (f *FSRS) Retrievability(s model.ReconstructedState, now time.Time) float64 {
	if s.LastReview == nil || s.Stability == nil {
		return 0
	}
	elapsed := now.Sub(*s.LastReview).Hours() / 24.0
	return f.model.retrievability(elapsed, *s.Stability)
}

func (f *FSRS) updateMemory(c *card, g float64, elapsedDays float64) {
	if c.stability == nil || c.difficulty == nil {
		c.stability = floatPtr(f.model.initialStability(g))
		c.difficulty = floatPtr(f.model.initialDifficulty(g, true))
		return
	}

	s, d := *c.stability, *c.difficulty
	if elapsedDays < 1 {
		c.stability = floatPtr(f.model.sameDayStability(s, g))
	} else {
		r := f.model.retrievability(elapsedDays, s)
		if g == float64(model.Again) {
			c.stability = floatPtr(f.model.forgetStability(d, s, r))
		} else {
			c.stability = floatPtr(f.model.recallStability(d, s, r, g))
		}
	}
	c.difficulty = floatPtr(f.model.nextDifficulty(d, g))
}

func (f *FSRS) transition(c *card, rating model.Rating) time.Duration {
	switch c.state {
	case model.Learning:
		return f.stepTransition(c, rating, f.learningSteps)
	case model.Relearning:
		return f.stepTransition(c, rating, f.relearningSteps)
	default:
		return f.reviewTransition(c, rating)
	}
}

// stepTransition moves an item through its learning or relearning steps.
func (f *FSRS) stepTransition(c *card, rating model.Rating, steps []time.Duration) time.Duration {
	step := 0
	if c.step != nil {
		step = *c.step
	}

	if len(steps) == 0 || (step >= len(steps) && rating != model.Again) {
		return f.graduate(c)
	}

	switch rating {
	case model.Again:
		c.step = intPtr(0)
		return steps[0]
	case model.Hard:
		if step == 0 && len(steps) == 1 {
			return time.Duration(float64(steps[0]) * 1.5)
		}
		if step == 0 {
			return (steps[0] + steps[1]) / 2
		}
		return steps[step]
	case model.Good:
		next := step + 1
		if next >= len(steps) {
			return f.graduate(c)
		}
		c.step = intPtr(next)
		return steps[next]
	default:
		return f.graduate(c)
	}
}

func (f *FSRS) reviewTransition(c *card, rating model.Rating) time.Duration {
	if rating == model.Again && len(f.relearningSteps) > 0 {
		c.state = model.Relearning
		c.step = intPtr(0)
		return f.relearningSteps[0]
	}
	return f.graduate(c)
}

// graduate places the item in Review with an interval from its stability.
func (f *FSRS) graduate(c *card) time.Duration {
	c.state = model.Review
	c.step = nil
	days := f.model.intervalDays(*c.stability, f.desiredRetention, f.maximumInterval)
	return time.Duration(days) * 24 * time.Hour
}
