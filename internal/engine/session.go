package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/memento/internal/model"
)

// Prompt is what the engine presents to a GradeSource for one item.
type Prompt struct {
	Item     model.Item
	State    model.ReconstructedState // prior state; LastGrade is zero for new items
	Position int                      // 1-based
	Total    int
	Now      time.Time
}

// Response is the learner's answer and self-assessed grade.
// Grade is raw input; the engine normalizes it.
type Response struct {
	Answer string
	Grade  string
}

// GradeSource obtains a response for each presented item.
//
// Returning ErrStopSession ends the session normally. Any other error aborts
// the session; entries already appended remain.
type GradeSource interface {
	Grade(ctx context.Context, p Prompt) (Response, error)
}

// GradeFunc adapts a function to GradeSource.
type GradeFunc func(ctx context.Context, p Prompt) (Response, error)

// Grade calls f.
func (f GradeFunc) Grade(ctx context.Context, p Prompt) (Response, error) {
	return f(ctx, p)
}

// ItemResult is the outcome of presenting one item.
//
// Err is nil on success. On success EntryID is the appended entry's ID, and
// State and Due are the newly scheduled values (Due nil means no further
// review).
type ItemResult struct {
	Item    model.Item
	Prior   model.ReconstructedState
	Rating  model.Rating
	EntryID int64
	State   model.State
	Due     *time.Time
	Err     error
}

// OK reports whether the item was reviewed and persisted.
func (r ItemResult) OK() bool {
	return r.Err == nil
}

// SessionReport summarizes a review session.
type SessionReport struct {
	SessionID string
	Now       time.Time
	Selected  int // due items chosen for the session, after WithLimit
	Results   []ItemResult
	Reviewed  int // graded and appended
	Skipped   int // invalid grade, nothing written
	Failed    int // policy or persistence failure
	Stopped   bool
}

type sessionOptions struct {
	filter   *int64
	limit    int
	reporter func(ItemResult)
	now      *time.Time
}

// SessionOption configures one RunSession call.
type SessionOption func(*sessionOptions)

// WithItem restricts the session to a single item.
// The session fails with ErrUnknownItem if it is not the owner's or not due.
func WithItem(itemID int64) SessionOption {
	return func(o *sessionOptions) {
		id := itemID
		o.filter = &id
	}
}

// WithLimit caps the number of items presented. Zero means no limit.
func WithLimit(n int) SessionOption {
	return func(o *sessionOptions) {
		o.limit = n
	}
}

// WithReporter registers a callback invoked after each item is handled.
func WithReporter(fn func(ItemResult)) SessionOption {
	return func(o *sessionOptions) {
		o.reporter = fn
	}
}

// At pins the session instant instead of reading the engine clock.
func At(now time.Time) SessionOption {
	return func(o *sessionOptions) {
		t := now.UTC()
		o.now = &t
	}
}

// RunSession presents every due item of ownerID to grader, in selector order,
// and appends one history entry per validly graded item.
//
// The session instant is read once at start and used for selection, for the
// policy call and as the review instant of every entry, so the whole session
// is scheduled against the same "now".
//
// The returned error is non-nil only when the session could not start
// (selection failed) or was aborted (context cancelled or grader error).
// Per-item failures are reported in SessionReport.Results.
func (e *Engine) RunSession(ctx context.Context, ownerID string, grader GradeSource, opts ...SessionOption) (SessionReport, error) {
	var o sessionOptions
	for _, opt := range opts {
		opt(&o)
	}

	now := e.clock.Now().UTC()
	if o.now != nil {
		now = *o.now
	}
	report := SessionReport{
		SessionID: e.sessions.Generate(),
		Now:       now,
	}
	logger := e.logger.With("session", report.SessionID, "owner", ownerID)

	due, err := e.SelectDue(ctx, ownerID, now, o.filter)
	if err != nil {
		return report, err
	}
	if o.limit > 0 && len(due) > o.limit {
		due = due[:o.limit]
	}
	report.Selected = len(due)
	logger.Debug("session started", "now", now, "due", len(due), "policy", e.policy.Name())

	for i, d := range due {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		resp, err := grader.Grade(ctx, Prompt{
			Item:     d.Item,
			State:    d.State,
			Position: i + 1,
			Total:    len(due),
			Now:      now,
		})
		if errors.Is(err, ErrStopSession) {
			report.Stopped = true
			logger.Debug("session stopped by grader", "position", i+1)
			break
		}
		if err != nil {
			return report, fmt.Errorf("grade item %d: %w", d.Item.ID, err)
		}

		res := e.review(ctx, report.SessionID, d.Item, resp, now)
		switch {
		case res.Err == nil:
			report.Reviewed++
		case IsInvalidGrade(res.Err):
			report.Skipped++
			logger.Warn("invalid grade, item skipped", "item", d.Item.ID, "input", resp.Grade)
		default:
			report.Failed++
			logger.Error("review failed", "item", d.Item.ID, "error", res.Err)
		}
		report.Results = append(report.Results, res)
		if o.reporter != nil {
			o.reporter(res)
		}
	}

	logger.Debug("session finished",
		"reviewed", report.Reviewed,
		"skipped", report.Skipped,
		"failed", report.Failed)
	return report, nil
}

// ReviewItem grades a single item outside a session loop, using the engine
// clock. The item must belong to ownerID; it need not be due.
//
// Unlike RunSession, the per-item failure is returned as the error.
func (e *Engine) ReviewItem(ctx context.Context, ownerID string, itemID int64, resp Response) (ItemResult, error) {
	snapshot, err := e.log.Snapshot(ctx, ownerID)
	if err != nil {
		return ItemResult{}, err
	}
	for _, is := range snapshot {
		if is.Item.ID != itemID {
			continue
		}
		res := e.review(ctx, e.sessions.Generate(), is.Item, resp, e.clock.Now().UTC())
		return res, res.Err
	}
	return ItemResult{}, notOwned(itemID, ownerID)
}

// review handles one graded item: normalize, reconstruct, schedule, append.
func (e *Engine) review(ctx context.Context, sessionID string, item model.Item, resp Response, now time.Time) ItemResult {
	res := ItemResult{Item: item}

	rating, err := model.ParseGrade(resp.Grade)
	if err != nil {
		res.Err = &InvalidGradeError{ItemID: item.ID, Input: resp.Grade, Err: err}
		return res
	}
	res.Rating = rating

	prior, err := e.log.ReconstructState(ctx, item.ID)
	if err != nil {
		res.Err = err
		return res
	}
	res.Prior = prior

	out, err := e.policy.ReviewCard(prior, rating, now)
	if err != nil {
		res.Err = fmt.Errorf("policy %s: %w", e.policy.Name(), err)
		return res
	}

	entry := model.HistoryEntry{
		ItemID:     item.ID,
		OwnerID:    item.OwnerID,
		SessionID:  sessionID,
		Answer:     resp.Answer,
		Grade:      rating,
		State:      out.State,
		Step:       out.Step,
		Difficulty: out.Difficulty,
		Stability:  out.Stability,
		ReviewedAt: now,
		Due:        model.UTCPtr(out.Due),
	}
	id, err := e.log.AppendHistory(ctx, entry)
	if err != nil {
		res.Err = err
		return res
	}

	res.EntryID = id
	res.State = entry.State
	res.Due = entry.Due
	e.logger.Debug("item reviewed",
		slog.Int64("item", item.ID),
		slog.String("grade", rating.String()),
		slog.String("state", entry.State.String()),
		slog.Any("due", entry.Due))
	return res
}
