package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/memento/internal/model"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestItem inserts an item for owner and returns its ID.
func createTestItem(t *testing.T, s *Store, owner, question string) int64 {
	t.Helper()
	id, err := s.CreateItem(context.Background(), model.Item{
		OwnerID:   owner,
		SourceRef: "notes.pdf#block-1",
		Question:  question,
		Answer:    "answer to " + question,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateItem() failed: %v", err)
	}
	return id
}

// createTestEntry builds a history entry with every scheduling field set.
func createTestEntry(itemID int64, owner string, grade model.Rating, reviewedAt time.Time, due *time.Time) model.HistoryEntry {
	step := 0
	difficulty := 5.0
	stability := 2.5
	return model.HistoryEntry{
		ItemID:     itemID,
		OwnerID:    owner,
		SessionID:  "test-session",
		Answer:     "my answer",
		Grade:      grade,
		State:      model.Learning,
		Step:       &step,
		Difficulty: &difficulty,
		Stability:  &stability,
		ReviewedAt: reviewedAt,
		Due:        due,
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
