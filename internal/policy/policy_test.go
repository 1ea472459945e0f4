package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ByName(t *testing.T) {
	p, err := New(Config{})
	require.NoError(t, err)
	assert.Equal(t, NameFSRS, p.Name())

	p, err = New(Config{Name: NameSM2})
	require.NoError(t, err)
	assert.Equal(t, NameSM2, p.Name())

	_, err = New(Config{Name: "leitner"})
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}
