package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/memento/internal/model"
)

// CreateItem inserts a new item and returns its assigned ID.
// Question, answer and source text are NFC-normalized. A zero CreatedAt is
// stamped with the current time.
func (s *Store) CreateItem(ctx context.Context, item model.Item) (int64, error) {
	if item.OwnerID == "" {
		return 0, errors.New("create item: owner id is required")
	}
	question := model.NormalizeText(item.Question)
	answer := model.NormalizeText(item.Answer)
	if question == "" || answer == "" {
		return 0, errors.New("create item: question and answer are required")
	}

	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO items (owner_id, source_ref, question, answer, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		item.OwnerID,
		model.NormalizeText(item.SourceRef),
		question,
		answer,
		marshalTime(createdAt),
	)
	if err != nil {
		return 0, &PersistenceError{Op: "create item", Err: err}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, &PersistenceError{Op: "create item: last insert id", Err: err}
	}
	return id, nil
}

// AppendHistory appends one review entry to the log and returns its ID.
//
// The referenced item must exist and belong to entry.OwnerID, otherwise
// ErrUnknownItem is returned and nothing is written. The ownership check and
// the INSERT run in one transaction, so the entry is either fully durable when
// this returns or not written at all.
//
// Instants are converted to UTC. The answer text is NFC-normalized. Grades
// outside 1-4 and unknown states are rejected before touching the database.
func (s *Store) AppendHistory(ctx context.Context, entry model.HistoryEntry) (int64, error) {
	if !entry.Grade.IsValid() {
		return 0, fmt.Errorf("append history: %w: %d", model.ErrInvalidGrade, int(entry.Grade))
	}
	if !entry.State.IsValid() {
		return 0, fmt.Errorf("append history: %w: %d", model.ErrUnknownState, int(entry.State))
	}
	if entry.ReviewedAt.IsZero() {
		return 0, errors.New("append history: reviewed_at is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &PersistenceError{Op: "append history: begin tx", Err: err}
	}
	defer tx.Rollback() // No-op if committed

	var owner string
	err = tx.QueryRowContext(ctx, `SELECT owner_id FROM items WHERE id = ?`, entry.ItemID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, unknownItem(entry.ItemID)
	}
	if err != nil {
		return 0, &PersistenceError{Op: "append history: lookup item", Err: err}
	}
	if owner != entry.OwnerID {
		return 0, unknownItem(entry.ItemID)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO history
		(item_id, owner_id, session_id, answer, grade, state, step, difficulty, stability, reviewed_at, due)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ItemID,
		entry.OwnerID,
		entry.SessionID,
		model.NFC(entry.Answer),
		int(entry.Grade),
		entry.State.Code(),
		marshalIntPtr(entry.Step),
		marshalFloatPtr(entry.Difficulty),
		marshalFloatPtr(entry.Stability),
		marshalTime(entry.ReviewedAt),
		marshalTimePtr(entry.Due),
	)
	if err != nil {
		return 0, &PersistenceError{Op: "append history: insert", Err: err}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, &PersistenceError{Op: "append history: last insert id", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return 0, &PersistenceError{Op: "append history: commit", Err: err}
	}

	return id, nil
}
