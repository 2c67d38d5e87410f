package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedClock_Frozen(t *testing.T) {
	clock := NewFixedClock(2024, time.May, 31)
	first := clock.Now()
	assert.Equal(t, first, clock.Now())
	assert.Equal(t, "2024-05-31", first.Format("2006-01-02"))
}

func TestFixedClock_SetAndAdvance(t *testing.T) {
	clock := NewFixedClock(2024, time.May, 31)
	clock.AddDays(1)
	assert.Equal(t, "2024-06-01", clock.Now().Format("2006-01-02"))

	clock.Set(time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 2025, clock.Now().Year())
}

func TestSequenceIDs_PerPrefixCounters(t *testing.T) {
	ids := NewSequenceIDs()
	assert.Equal(t, "INV-0001", ids.NewID("INV"))
	assert.Equal(t, "TRX-0001", ids.NewID("TRX"))
	assert.Equal(t, "INV-0002", ids.NewID("INV"))
}

func TestSequenceIDs_ThreadSafe(t *testing.T) {
	ids := NewSequenceIDs()
	const numGoroutines = 20
	const callsPerGoroutine = 50

	seen := sync.Map{}
	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				_, dup := seen.LoadOrStore(ids.NewID("ATT"), true)
				assert.False(t, dup)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, "ATT-1001", ids.NewID("ATT"))
}
