package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var start = time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

func TestStepClock_Advances(t *testing.T) {
	c := NewStepClock(start, time.Second)

	assert.Equal(t, start, c.Now())
	assert.Equal(t, start.Add(time.Second), c.Now())
	assert.Equal(t, start.Add(2*time.Second), c.Peek())
}

func TestStepClock_ZeroStepFreezes(t *testing.T) {
	c := NewStepClock(start, 0)
	assert.Equal(t, c.Now(), c.Now())
}

func TestStepClock_AdvanceAndSet(t *testing.T) {
	c := NewStepClock(start, 0)

	c.Advance(72 * time.Hour)
	assert.Equal(t, start.Add(72*time.Hour), c.Now())

	other := time.Date(2024, 12, 25, 10, 0, 0, 0, time.FixedZone("UTC-3", -3*3600))
	c.Set(other)
	assert.Equal(t, time.Date(2024, 12, 25, 13, 0, 0, 0, time.UTC), c.Now())
}

func TestStepClock_Concurrent(t *testing.T) {
	c := NewStepClock(start, time.Millisecond)
	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[time.Time]bool)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				now := c.Now()
				mu.Lock()
				seen[now] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 1000, "every read returns a distinct instant")
	assert.Equal(t, start.Add(1000*time.Millisecond), c.Peek())
}
