package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/memento/internal/model"
)

func TestReadItem_NotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.ReadItem(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestReadOwnedItem(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	id := createTestItem(t, s, "alice", "q1")

	item, err := s.ReadOwnedItem(ctx, "alice", id)
	require.NoError(t, err)
	assert.Equal(t, "q1", item.Question)

	_, err = s.ReadOwnedItem(ctx, "bob", id)
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestListItems_ByOwner(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	a := createTestItem(t, s, "alice", "q1")
	createTestItem(t, s, "bob", "q2")
	c := createTestItem(t, s, "alice", "q3")

	items, err := s.ListItems(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, a, items[0].ID)
	assert.Equal(t, c, items[1].ID)

	none, err := s.ListItems(ctx, "carol")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestLatestFor_NoHistory(t *testing.T) {
	s := createTestStore(t)
	item := createTestItem(t, s, "alice", "q1")

	latest, err := s.LatestFor(context.Background(), item)
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestLatestFor_GreatestReviewInstant(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	item := createTestItem(t, s, "alice", "q1")

	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(24 * time.Hour)

	// Appended out of chronological order.
	_, err := s.AppendHistory(ctx, createTestEntry(item, "alice", model.Easy, t2, nil))
	require.NoError(t, err)
	_, err = s.AppendHistory(ctx, createTestEntry(item, "alice", model.Again, t1, nil))
	require.NoError(t, err)

	latest, err := s.LatestFor(ctx, item)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, t2, latest.ReviewedAt)
	assert.Equal(t, model.Easy, latest.Grade)
}

func TestLatestFor_SubsecondOrdering(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	item := createTestItem(t, s, "alice", "q1")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.AppendHistory(ctx, createTestEntry(item, "alice", model.Hard, base.Add(500*time.Millisecond), nil))
	require.NoError(t, err)
	_, err = s.AppendHistory(ctx, createTestEntry(item, "alice", model.Good, base, nil))
	require.NoError(t, err)

	latest, err := s.LatestFor(ctx, item)
	require.NoError(t, err)
	assert.Equal(t, model.Hard, latest.Grade, "x.5s must sort after x.0s")
}

func TestLatestFor_TieBrokenByID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	item := createTestItem(t, s, "alice", "q1")

	same := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	_, err := s.AppendHistory(ctx, createTestEntry(item, "alice", model.Hard, same, nil))
	require.NoError(t, err)
	second, err := s.AppendHistory(ctx, createTestEntry(item, "alice", model.Easy, same, nil))
	require.NoError(t, err)

	latest, err := s.LatestFor(ctx, item)
	require.NoError(t, err)
	assert.Equal(t, second, latest.ID)
	assert.Equal(t, model.Easy, latest.Grade)
}

func TestReadHistory_Ordered(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	item := createTestItem(t, s, "alice", "q1")

	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, g := range []model.Rating{model.Good, model.Again, model.Easy} {
		_, err := s.AppendHistory(ctx, createTestEntry(item, "alice", g, t1.Add(time.Duration(2-i)*time.Hour), nil))
		require.NoError(t, err)
	}

	entries, err := s.ReadHistory(ctx, item)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, model.Easy, entries[0].Grade)
	assert.Equal(t, model.Again, entries[1].Grade)
	assert.Equal(t, model.Good, entries[2].Grade)
	assert.Equal(t, "test-session", entries[0].SessionID)
}

func TestReadHistory_NullableFieldsRoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	item := createTestItem(t, s, "alice", "q1")

	entry := model.HistoryEntry{
		ItemID:     item,
		OwnerID:    "alice",
		Grade:      model.Good,
		State:      model.Review,
		ReviewedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	_, err := s.AppendHistory(ctx, entry)
	require.NoError(t, err)

	entries, err := s.ReadHistory(ctx, item)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].Step)
	assert.Nil(t, entries[0].Difficulty)
	assert.Nil(t, entries[0].Stability)
	assert.Nil(t, entries[0].Due)
	assert.Equal(t, model.Review, entries[0].State)
}
