package engine

import (
	"context"
	"sort"
	"time"

	"github.com/roach88/memento/internal/model"
	"github.com/roach88/memento/internal/store"
)

// DueItem is an item eligible for review with its reconstructed state.
type DueItem struct {
	Item  model.Item
	State model.ReconstructedState
}

// SelectDue returns the owner's items that are due at now.
//
// An item is due when it has no due instant (never reviewed) or its due
// instant is not after now. Ordering:
//   - items without a due instant first, by item ID
//   - then by due instant ascending, ties by item ID
//
// When filter is non-nil the result is restricted to that item, and
// ErrUnknownItem is returned if it is not the owner's or is not due.
//
// The owner's items and states are read once; the result reflects a single
// consistent view of the log.
func (e *Engine) SelectDue(ctx context.Context, ownerID string, now time.Time, filter *int64) ([]DueItem, error) {
	snapshot, err := e.log.Snapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return selectDue(snapshot, ownerID, now, filter)
}

// selectDue applies the inclusion and ordering rules to a snapshot.
func selectDue(snapshot []store.ItemState, ownerID string, now time.Time, filter *int64) ([]DueItem, error) {
	due := []DueItem{}
	found := false
	for _, is := range snapshot {
		if filter != nil && is.Item.ID != *filter {
			continue
		}
		found = true
		if is.State.IsDue(now) {
			due = append(due, DueItem{Item: is.Item, State: is.State})
		}
	}

	if filter != nil {
		if !found {
			return nil, notOwned(*filter, ownerID)
		}
		if len(due) == 0 {
			return nil, notDue(*filter)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		return dueBefore(due[i], due[j])
	})
	return due, nil
}

// dueBefore is the selector's strict ordering.
func dueBefore(a, b DueItem) bool {
	ad, bd := a.State.Due, b.State.Due
	switch {
	case ad == nil && bd != nil:
		return true
	case ad != nil && bd == nil:
		return false
	case ad != nil && bd != nil && !ad.Equal(*bd):
		return ad.Before(*bd)
	default:
		return a.Item.ID < b.Item.ID
	}
}
