package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/memento/internal/model"
	"github.com/roach88/memento/internal/store"
)

// ItemCreatedAt is the creation instant stamped on items made by SeedItems.
var ItemCreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// OpenStore opens a fresh store in a temp directory and closes it when the
// test ends.
func OpenStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// SeedItems creates one item per question for owner and returns their IDs in
// order. Each answer is "A: " followed by the question.
func SeedItems(t *testing.T, s *store.Store, owner string, questions ...string) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(questions))
	for _, q := range questions {
		id, err := s.CreateItem(context.Background(), model.Item{
			OwnerID:   owner,
			Question:  q,
			Answer:    "A: " + q,
			CreatedAt: ItemCreatedAt,
		})
		if err != nil {
			t.Fatalf("CreateItem(%q) failed: %v", q, err)
		}
		ids = append(ids, id)
	}
	return ids
}
