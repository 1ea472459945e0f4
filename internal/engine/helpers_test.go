package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/memento/internal/clock"
	"github.com/roach88/memento/internal/model"
	"github.com/roach88/memento/internal/policy"
	"github.com/roach88/memento/internal/store"
	"github.com/roach88/memento/internal/testutil"
)

var t0 = time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

// stubPolicy schedules every review for now + interval in state Review.
type stubPolicy struct {
	interval time.Duration
	err      error
	calls    int
}

func (p *stubPolicy) Name() string { return "stub" }

func (p *stubPolicy) ReviewCard(prior model.ReconstructedState, rating model.Rating, now time.Time) (policy.Outcome, error) {
	p.calls++
	if p.err != nil {
		return policy.Outcome{}, p.err
	}
	due := now.Add(p.interval)
	step := 0
	return policy.Outcome{State: model.Review, Step: &step, Due: &due}, nil
}

// failingLog wraps a store and fails every append.
type failingLog struct {
	*store.Store
}

func (f failingLog) AppendHistory(ctx context.Context, entry model.HistoryEntry) (int64, error) {
	return 0, &store.PersistenceError{Op: "append history", Err: errors.New("disk full")}
}

func openStore(t *testing.T) *store.Store {
	return testutil.OpenStore(t)
}

func addItem(t *testing.T, s *store.Store, owner, question string) int64 {
	t.Helper()
	id, err := s.CreateItem(context.Background(), model.Item{
		OwnerID:   owner,
		Question:  question,
		Answer:    "A: " + question,
		CreatedAt: t0.Add(-24 * time.Hour),
	})
	require.NoError(t, err)
	return id
}

// appendDue writes a history entry for itemID whose due instant is due.
func appendDue(t *testing.T, s *store.Store, itemID int64, owner string, reviewedAt time.Time, due *time.Time) {
	t.Helper()
	_, err := s.AppendHistory(context.Background(), model.HistoryEntry{
		ItemID:     itemID,
		OwnerID:    owner,
		SessionID:  "seed",
		Grade:      model.Good,
		State:      model.Review,
		ReviewedAt: reviewedAt,
		Due:        due,
	})
	require.NoError(t, err)
}

func newTestEngine(log HistoryLog, now time.Time, p policy.Policy) *Engine {
	return New(log, clock.Fixed(now), p, WithSessionIDs(NewFixedGenerator("s1", "s2", "s3", "s4")))
}

// scripted returns a GradeSource answering each prompt with the next grade.
// Prompts beyond the script stop the session.
func scripted(grades ...string) (GradeSource, *[]Prompt) {
	var seen []Prompt
	i := 0
	return GradeFunc(func(ctx context.Context, p Prompt) (Response, error) {
		seen = append(seen, p)
		if i >= len(grades) {
			return Response{}, ErrStopSession
		}
		g := grades[i]
		i++
		return Response{Answer: "typed", Grade: g}, nil
	}), &seen
}

func ptr(t time.Time) *time.Time {
	return &t
}
