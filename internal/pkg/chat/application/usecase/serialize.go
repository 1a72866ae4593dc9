package usecase

import (
	"hash/fnv"
	"sync"
	"time"
)

const lockStripes = 64

// conversationLocks serializes sends per conversation so that persistence
// order and broadcast order agree. Conversations share stripes by hash.
type conversationLocks struct {
	stripes [lockStripes]sync.Mutex
}

func (l *conversationLocks) lock(conversationID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(conversationID))
	m := &l.stripes[h.Sum32()%lockStripes]
	m.Lock()
	return m.Unlock
}

// watermarks remembers the newest timestamp assigned per conversation so that
// a stale lastMessageAt never lets a later message sort earlier.
type watermarks struct {
	mu   sync.Mutex
	last map[string]time.Time
}

func (w *watermarks) get(conversationID string) time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last[conversationID]
}

func (w *watermarks) set(conversationID string, at time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.last == nil {
		w.last = make(map[string]time.Time)
	}
	if at.After(w.last[conversationID]) {
		w.last[conversationID] = at
	}
}

func (w *watermarks) forget(conversationID string) {
	w.mu.Lock()
	delete(w.last, conversationID)
	w.mu.Unlock()
}
