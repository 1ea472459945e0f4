package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fakeWall(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestClock_New_TracksWall(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	wall := time.Date(2024, 5, 1, 12, 0, 0, 0, loc)
	c := New(WithWallClock(fakeWall(wall)))

	assert.False(t, c.IsOverridden())
	assert.True(t, c.Now().Equal(wall))
	assert.Equal(t, time.UTC, c.Now().Location(), "Now must be UTC")
}

func TestClock_Override_RepeatsExactly(t *testing.T) {
	c := New()
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.Override(fixed)

	assert.True(t, c.IsOverridden())
	for i := 0; i < 5; i++ {
		assert.Equal(t, fixed, c.Now())
	}
}

func TestClock_ClearOverride_ResumesWall(t *testing.T) {
	wall := time.Date(2030, 6, 1, 8, 30, 0, 0, time.UTC)
	c := Fixed(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), WithWallClock(fakeWall(wall)))

	c.ClearOverride()
	assert.False(t, c.IsOverridden())
	assert.Equal(t, wall, c.Now())
}

func TestClock_ClearOverride_RealTime(t *testing.T) {
	c := Fixed(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	c.ClearOverride()

	before := time.Now()
	got := c.Now()
	after := time.Now()
	assert.False(t, got.Before(before.Truncate(time.Second)))
	assert.False(t, got.After(after))
}

func TestClock_InstancesIsolated(t *testing.T) {
	a := New()
	b := New()
	a.Override(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	assert.True(t, a.IsOverridden())
	assert.False(t, b.IsOverridden())
}

func TestClock_ThreadSafe(t *testing.T) {
	c := New()
	fixed := time.Date(2024, 3, 3, 3, 3, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Override(fixed)
		}()
		go func() {
			defer wg.Done()
			_ = c.Now()
			_ = c.IsOverridden()
		}()
	}
	wg.Wait()

	assert.Equal(t, fixed, c.Now())
}
