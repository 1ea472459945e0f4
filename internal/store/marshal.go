package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/memento/internal/model"
)

// timeLayout is fixed width so stored text sorts chronologically.
// RFC3339Nano trims trailing zeros and would not.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// marshalTime converts an instant to its stored UTC text form.
func marshalTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// marshalTimePtr converts an optional instant to a nullable column value.
func marshalTimePtr(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: marshalTime(*t), Valid: true}
}

// unmarshalTime parses stored UTC text.
func unmarshalTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(timeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("unmarshal time %q: %w", s, err)
	}
	return t, nil
}

// unmarshalTimePtr parses a nullable instant column.
func unmarshalTimePtr(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := unmarshalTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func marshalIntPtr(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func unmarshalIntPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func marshalFloatPtr(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func unmarshalFloatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

// historyRow holds the raw columns of one history row before conversion.
type historyRow struct {
	id         int64
	itemID     int64
	ownerID    string
	sessionID  string
	answer     string
	grade      int
	state      int
	step       sql.NullInt64
	difficulty sql.NullFloat64
	stability  sql.NullFloat64
	reviewedAt string
	due        sql.NullString
}

// entry converts raw columns to a HistoryEntry, failing loudly on codes
// that do not map to a Rating or State.
func (r historyRow) entry() (model.HistoryEntry, error) {
	grade, err := model.RatingFromInt(r.grade)
	if err != nil {
		return model.HistoryEntry{}, fmt.Errorf("history %d: %w", r.id, err)
	}
	state, err := model.StateFromCode(r.state)
	if err != nil {
		return model.HistoryEntry{}, fmt.Errorf("history %d: %w", r.id, err)
	}
	reviewedAt, err := unmarshalTime(r.reviewedAt)
	if err != nil {
		return model.HistoryEntry{}, fmt.Errorf("history %d: %w", r.id, err)
	}
	due, err := unmarshalTimePtr(r.due)
	if err != nil {
		return model.HistoryEntry{}, fmt.Errorf("history %d: %w", r.id, err)
	}

	return model.HistoryEntry{
		ID:         r.id,
		ItemID:     r.itemID,
		OwnerID:    r.ownerID,
		SessionID:  r.sessionID,
		Answer:     r.answer,
		Grade:      grade,
		State:      state,
		Step:       unmarshalIntPtr(r.step),
		Difficulty: unmarshalFloatPtr(r.difficulty),
		Stability:  unmarshalFloatPtr(r.stability),
		ReviewedAt: reviewedAt,
		Due:        due,
	}, nil
}

const historyColumns = `id, item_id, owner_id, session_id, answer, grade, state, step, difficulty, stability, reviewed_at, due`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanHistory(sc rowScanner) (historyRow, error) {
	var r historyRow
	err := sc.Scan(
		&r.id, &r.itemID, &r.ownerID, &r.sessionID, &r.answer, &r.grade, &r.state,
		&r.step, &r.difficulty, &r.stability, &r.reviewedAt, &r.due,
	)
	return r, err
}
