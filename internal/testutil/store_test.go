package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedItems(t *testing.T) {
	s := OpenStore(t)
	ids := SeedItems(t, s, "alice", "one", "two")
	require.Len(t, ids, 2)
	assert.Less(t, ids[0], ids[1])

	items, err := s.ListItems(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "A: two", items[1].Answer)
	assert.Equal(t, ItemCreatedAt, items[0].CreatedAt)
}

func TestFixedSessionID(t *testing.T) {
	assert.Equal(t, "test-session", NewFixedSessionID("").Generate())

	gen := NewFixedSessionID("s-1")
	assert.Equal(t, "s-1", gen.Generate())
	assert.Equal(t, "s-1", gen.Generate())
}
