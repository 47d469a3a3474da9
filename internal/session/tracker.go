// Package session tracks the start and last-frame timestamps of live
// driving sessions, one at most per user.
package session

import "sync"

const shardCount = 32

type entry struct {
	startTimestamp int64
	lastTimestamp  int64
}

type shard struct {
	mu       sync.Mutex
	sessions map[int64]*entry
}

// Tracker is a sharded per-user session map. Operations on different
// users hit different shards and do not contend.
type Tracker struct {
	shards [shardCount]*shard
}

func NewTracker() *Tracker {
	t := &Tracker{}
	for i := range t.shards {
		t.shards[i] = &shard{sessions: make(map[int64]*entry)}
	}
	return t
}

func (t *Tracker) shardFor(userID int64) *shard {
	return t.shards[uint64(userID)%shardCount]
}

// OnFrame records a batch arrival. A new session starts on batchId 0 or
// when no session exists; the last-frame timestamp always advances to
// the batch timestamp.
func (t *Tracker) OnFrame(userID int64, batchID int32, timestamp int64) {
	s := t.shardFor(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[userID]
	if !ok || batchID == 0 {
		e = &entry{startTimestamp: timestamp}
		s.sessions[userID] = e
	}
	e.lastTimestamp = timestamp
}

// OnSessionEnd removes the user's session and returns its timestamps.
// Returns (0, 0) when no session exists so end-of-session logic can fall
// back to a minimum-duration record instead of erroring.
func (t *Tracker) OnSessionEnd(userID int64) (start, last int64) {
	s := t.shardFor(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[userID]
	if !ok {
		return 0, 0
	}
	delete(s.sessions, userID)
	return e.startTimestamp, e.lastTimestamp
}

// Active reports whether the user currently has a live session.
func (t *Tracker) Active(userID int64) bool {
	s := t.shardFor(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[userID]
	return ok
}
