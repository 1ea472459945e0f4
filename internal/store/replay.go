package store

import (
	"context"
	"database/sql"

	"github.com/roach88/memento/internal/model"
)

// ItemState pairs an item with the state reconstructed from its history.
type ItemState struct {
	Item  model.Item
	State model.ReconstructedState
}

// ReconstructState derives an item's current scheduling state from its latest
// history entry, or returns model.NewState() when the item has no history.
//
// Absence of history is a normal case. Only an item that does not exist
// yields ErrUnknownItem.
func (s *Store) ReconstructState(ctx context.Context, itemID int64) (model.ReconstructedState, error) {
	if _, err := s.ReadItem(ctx, itemID); err != nil {
		return model.ReconstructedState{}, err
	}

	latest, err := s.LatestFor(ctx, itemID)
	if err != nil {
		return model.ReconstructedState{}, err
	}
	if latest == nil {
		return model.NewState(), nil
	}
	return model.StateFromEntry(*latest), nil
}

// Snapshot returns every item of an owner with its reconstructed state,
// ordered by item ID.
//
// Items and their latest entries are read by a single statement, so the
// result is one consistent view of the log even while other sessions append.
func (s *Store) Snapshot(ctx context.Context, ownerID string) ([]ItemState, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.owner_id, i.source_ref, i.question, i.answer, i.created_at,
		       h.id, h.item_id, h.owner_id, h.session_id, h.answer, h.grade, h.state,
		       h.step, h.difficulty, h.stability, h.reviewed_at, h.due
		FROM items i
		LEFT JOIN (
			SELECT *, ROW_NUMBER() OVER (
				PARTITION BY item_id ORDER BY reviewed_at DESC, id DESC
			) AS rn
			FROM history
		) h ON h.item_id = i.id AND h.rn = 1
		WHERE i.owner_id = ?
		ORDER BY i.id ASC
	`, ownerID)
	if err != nil {
		return nil, &PersistenceError{Op: "snapshot", Err: err}
	}
	defer rows.Close()

	out := []ItemState{}
	for rows.Next() {
		var (
			item      model.Item
			createdAt string
			hID       sql.NullInt64
			hItemID   sql.NullInt64
			hOwner    sql.NullString
			hSession  sql.NullString
			hAnswer   sql.NullString
			hGrade    sql.NullInt64
			hState    sql.NullInt64
			hReviewed sql.NullString
			raw       historyRow
		)
		if err := rows.Scan(
			&item.ID, &item.OwnerID, &item.SourceRef, &item.Question, &item.Answer, &createdAt,
			&hID, &hItemID, &hOwner, &hSession, &hAnswer, &hGrade, &hState,
			&raw.step, &raw.difficulty, &raw.stability, &hReviewed, &raw.due,
		); err != nil {
			return nil, &PersistenceError{Op: "snapshot: scan", Err: err}
		}

		t, err := unmarshalTime(createdAt)
		if err != nil {
			return nil, err
		}
		item.CreatedAt = t

		state := model.NewState()
		if hID.Valid {
			raw.id = hID.Int64
			raw.itemID = hItemID.Int64
			raw.ownerID = hOwner.String
			raw.sessionID = hSession.String
			raw.answer = hAnswer.String
			raw.grade = int(hGrade.Int64)
			raw.state = int(hState.Int64)
			raw.reviewedAt = hReviewed.String

			entry, err := raw.entry()
			if err != nil {
				return nil, err
			}
			state = model.StateFromEntry(entry)
		}

		out = append(out, ItemState{Item: item, State: state})
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "snapshot: iterate", Err: err}
	}
	return out, nil
}
