package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/memento/internal/model"
)

// ReadItem retrieves a single item by ID.
// Returns ErrUnknownItem if not found.
func (s *Store) ReadItem(ctx context.Context, id int64) (model.Item, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, source_ref, question, answer, created_at
		FROM items
		WHERE id = ?
	`, id)

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Item{}, unknownItem(id)
	}
	if err != nil {
		return model.Item{}, &PersistenceError{Op: "read item", Err: err}
	}
	return item, nil
}

// ReadOwnedItem retrieves an item and checks that it belongs to ownerID.
// Items of other owners are reported as ErrUnknownItem.
func (s *Store) ReadOwnedItem(ctx context.Context, ownerID string, id int64) (model.Item, error) {
	item, err := s.ReadItem(ctx, id)
	if err != nil {
		return model.Item{}, err
	}
	if item.OwnerID != ownerID {
		return model.Item{}, unknownItem(id)
	}
	return item, nil
}

// ListItems returns all items of an owner ordered by ID.
// Returns an empty slice (not nil) if the owner has no items.
func (s *Store) ListItems(ctx context.Context, ownerID string) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, source_ref, question, answer, created_at
		FROM items
		WHERE owner_id = ?
		ORDER BY id ASC
	`, ownerID)
	if err != nil {
		return nil, &PersistenceError{Op: "list items", Err: err}
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, &PersistenceError{Op: "list items: scan", Err: err}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "list items: iterate", Err: err}
	}
	return items, nil
}

// LatestFor returns the most recent history entry of an item: greatest
// reviewed_at, ties broken by greater id. Returns nil, nil when the item has
// no history.
func (s *Store) LatestFor(ctx context.Context, itemID int64) (*model.HistoryEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+historyColumns+`
		FROM history
		WHERE item_id = ?
		ORDER BY reviewed_at DESC, id DESC
		LIMIT 1
	`, itemID)

	raw, err := scanHistory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "latest history", Err: err}
	}

	entry, err := raw.entry()
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ReadHistory returns every entry of an item in review order
// (reviewed_at ASC, id ASC). Returns an empty slice (not nil) if none exist.
func (s *Store) ReadHistory(ctx context.Context, itemID int64) ([]model.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+historyColumns+`
		FROM history
		WHERE item_id = ?
		ORDER BY reviewed_at ASC, id ASC
	`, itemID)
	if err != nil {
		return nil, &PersistenceError{Op: "read history", Err: err}
	}
	defer rows.Close()

	entries := []model.HistoryEntry{}
	for rows.Next() {
		raw, err := scanHistory(rows)
		if err != nil {
			return nil, &PersistenceError{Op: "read history: scan", Err: err}
		}
		entry, err := raw.entry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "read history: iterate", Err: err}
	}
	return entries, nil
}

// CountHistory returns the number of entries recorded for an item.
func (s *Store) CountHistory(ctx context.Context, itemID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history WHERE item_id = ?`, itemID).Scan(&n)
	if err != nil {
		return 0, &PersistenceError{Op: "count history", Err: err}
	}
	return n, nil
}

func scanItem(sc rowScanner) (model.Item, error) {
	var item model.Item
	var createdAt string
	if err := sc.Scan(&item.ID, &item.OwnerID, &item.SourceRef, &item.Question, &item.Answer, &createdAt); err != nil {
		return model.Item{}, err
	}
	t, err := unmarshalTime(createdAt)
	if err != nil {
		return model.Item{}, fmt.Errorf("item %d: %w", item.ID, err)
	}
	item.CreatedAt = t
	return item, nil
}
