package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalTime_LexicalOrderIsChronological(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	times := []time.Time{
		base,
		base.Add(time.Nanosecond),
		base.Add(500 * time.Millisecond),
		base.Add(time.Second),
		base.Add(24 * time.Hour),
	}
	for i := 1; i < len(times); i++ {
		assert.Less(t, marshalTime(times[i-1]), marshalTime(times[i]))
	}
}

func TestMarshalTime_ConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	got := marshalTime(time.Date(2024, 12, 25, 10, 0, 0, 0, loc))
	assert.Equal(t, "2024-12-25T13:00:00.000000000Z", got)

	back, err := unmarshalTime(got)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 12, 25, 13, 0, 0, 0, time.UTC), back)
}

func TestUnmarshalTimePtr_Null(t *testing.T) {
	got, err := unmarshalTimePtr(sql.NullString{})
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = unmarshalTimePtr(sql.NullString{String: "garbage", Valid: true})
	assert.Error(t, err)
}

func TestHistoryRow_UnmappedCodesFailLoudly(t *testing.T) {
	row := historyRow{id: 1, grade: 3, state: 9, reviewedAt: "2024-01-01T00:00:00.000000000Z"}
	_, err := row.entry()
	assert.Error(t, err)

	row = historyRow{id: 1, grade: 0, state: 1, reviewedAt: "2024-01-01T00:00:00.000000000Z"}
	_, err = row.entry()
	assert.Error(t, err)
}
