package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOnFrameStartsSession(t *testing.T) {
	tr := NewTracker()

	tr.OnFrame(1, 0, 1000)
	assert.True(t, tr.Active(1))

	start, last := tr.OnSessionEnd(1)
	assert.Equal(t, int64(1000), start)
	assert.Equal(t, int64(1000), last)
	assert.False(t, tr.Active(1))
}

func TestOnFrameAdvancesLastTimestamp(t *testing.T) {
	tr := NewTracker()

	tr.OnFrame(1, 0, 1000)
	tr.OnFrame(1, 1, 2000)
	tr.OnFrame(1, 2, 3500)

	start, last := tr.OnSessionEnd(1)
	assert.Equal(t, int64(1000), start)
	assert.Equal(t, int64(3500), last)
}

func TestBatchZeroResetsSession(t *testing.T) {
	tr := NewTracker()

	tr.OnFrame(1, 0, 1000)
	tr.OnFrame(1, 1, 2000)

	// A new batchId 0 starts over even with a live session.
	tr.OnFrame(1, 0, 5000)
	tr.OnFrame(1, 1, 6000)

	start, last := tr.OnSessionEnd(1)
	assert.Equal(t, int64(5000), start)
	assert.Equal(t, int64(6000), last)
}

func TestMidSessionBatchWithoutStart(t *testing.T) {
	tr := NewTracker()

	// First observed batch is not 0; a session still starts there.
	tr.OnFrame(1, 5, 4000)

	start, last := tr.OnSessionEnd(1)
	assert.Equal(t, int64(4000), start)
	assert.Equal(t, int64(4000), last)
}

func TestOnSessionEndWithoutSession(t *testing.T) {
	tr := NewTracker()

	start, last := tr.OnSessionEnd(99)
	assert.Zero(t, start)
	assert.Zero(t, last)
}

func TestSessionsAreIndependentPerUser(t *testing.T) {
	tr := NewTracker()

	tr.OnFrame(1, 0, 1000)
	tr.OnFrame(2, 0, 9000)
	tr.OnFrame(1, 1, 2000)

	start1, last1 := tr.OnSessionEnd(1)
	assert.Equal(t, int64(1000), start1)
	assert.Equal(t, int64(2000), last1)
	assert.True(t, tr.Active(2))
}

func TestConcurrentFramesManyUsers(t *testing.T) {
	tr := NewTracker()

	const users = 64
	const frames = 100

	var wg sync.WaitGroup
	for u := int64(1); u <= users; u++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			for i := int32(0); i < frames; i++ {
				tr.OnFrame(userID, i, int64(1000+i*100))
			}
		}(u)
	}
	wg.Wait()

	for u := int64(1); u <= users; u++ {
		start, last := tr.OnSessionEnd(u)
		assert.Equal(t, int64(1000), start)
		assert.Equal(t, int64(1000+(frames-1)*100), last)
	}
}
