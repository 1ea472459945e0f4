package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateFromCode(t *testing.T) {
	for _, s := range []State{New, Learning, Review, Relearning} {
		got, err := StateFromCode(s.Code())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestStateFromCode_Unmapped(t *testing.T) {
	for _, code := range []int{-1, 4, 99} {
		_, err := StateFromCode(code)
		assert.ErrorIs(t, err, ErrUnknownState, "code %d", code)
	}
}

func TestState_TextRoundTrip(t *testing.T) {
	data, err := json.Marshal(Relearning)
	require.NoError(t, err)
	assert.Equal(t, `"Relearning"`, string(data))

	var s State
	require.NoError(t, json.Unmarshal(data, &s))
	assert.Equal(t, Relearning, s)

	assert.ErrorIs(t, s.UnmarshalText([]byte("Mastered")), ErrUnknownState)
	assert.Equal(t, "State(8)", State(8).String())
}
