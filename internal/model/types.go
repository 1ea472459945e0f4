package model

import "time"

// Item is a reviewable question/answer pair.
// Items are created by the ingestion side and never edited afterwards.
type Item struct {
	ID        int64     `json:"id"`
	OwnerID   string    `json:"owner_id"`
	SourceRef string    `json:"source_ref,omitempty"` // e.g. "notes.pdf#block-3"
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryEntry is one immutable record of a completed review.
//
// The history log is the single source of truth for scheduling state. Step,
// Difficulty and Stability are nil when the policy leaves them unset. Due is
// nil when the policy signals that no further review is needed.
type HistoryEntry struct {
	ID         int64      `json:"id"`
	ItemID     int64      `json:"item_id"`
	OwnerID    string     `json:"owner_id"`
	SessionID  string     `json:"session_id"`
	Answer     string     `json:"answer"`
	Grade      Rating     `json:"grade"`
	State      State      `json:"state"`
	Step       *int       `json:"step"`
	Difficulty *float64   `json:"difficulty"`
	Stability  *float64   `json:"stability"`
	ReviewedAt time.Time  `json:"reviewed_at"`
	Due        *time.Time `json:"due"`
}

// ReconstructedState is the scheduling view of an item derived from its
// latest history entry. It is never persisted.
type ReconstructedState struct {
	State      State      `json:"state"`
	Step       *int       `json:"step"`
	Difficulty *float64   `json:"difficulty"`
	Stability  *float64   `json:"stability"`
	LastReview *time.Time `json:"last_review"`
	Due        *time.Time `json:"due"`
	LastGrade  Rating     `json:"-"` // zero for a new item
}

// NewState returns the sentinel for an item with no history:
// state New, nothing set, and no due instant (immediately eligible).
func NewState() ReconstructedState {
	return ReconstructedState{State: New}
}

// StateFromEntry copies the scheduling fields of e field for field.
// Pointer fields are copied by value so the view never aliases the entry.
func StateFromEntry(e HistoryEntry) ReconstructedState {
	reviewed := e.ReviewedAt.UTC()
	return ReconstructedState{
		State:      e.State,
		Step:       cloneInt(e.Step),
		Difficulty: cloneFloat(e.Difficulty),
		Stability:  cloneFloat(e.Stability),
		LastReview: &reviewed,
		Due:        UTCPtr(e.Due),
		LastGrade:  e.Grade,
	}
}

// IsNew reports whether s is the no-history sentinel.
func (s ReconstructedState) IsNew() bool {
	return s.State == New && s.LastReview == nil && s.Due == nil &&
		s.Step == nil && s.Difficulty == nil && s.Stability == nil
}

// IsDue reports whether the item is eligible for review at now.
// An absent due instant is always eligible.
func (s ReconstructedState) IsDue(now time.Time) bool {
	if s.Due == nil {
		return true
	}
	return !s.Due.After(now)
}

// UTCPtr returns a copy of t converted to UTC, or nil.
func UTCPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
