package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps slots in process. Used when no Redis address is configured.
type MemoryStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]*memoryEntry
}

type memoryEntry struct {
	seq     int64
	slot    Slot
	hasSlot bool
	expires time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{ttl: ttl, now: time.Now, items: make(map[string]*memoryEntry)}
}

func (s *MemoryStore) NextSeq(_ context.Context, sessionID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(sessionID)
	e.seq++
	return e.seq, nil
}

func (s *MemoryStore) Apply(_ context.Context, sessionID string, slot Slot) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(sessionID)
	if e.hasSlot && !supersedes(slot.Seq, e.slot) {
		return false, nil
	}
	e.slot, e.hasSlot = slot, true
	// A late outcome can land on a recreated entry; the counter must not
	// fall behind the slot it now guards.
	if slot.Seq > e.seq {
		e.seq = slot.Seq
	}
	return true, nil
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (Slot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[sessionID]
	if !ok || !s.now().Before(e.expires) || !e.hasSlot {
		return Slot{}, false, nil
	}
	return e.slot, true, nil
}

// entry returns the live entry for sessionID, refreshing its expiry. Caller holds mu.
func (s *MemoryStore) entry(sessionID string) *memoryEntry {
	now := s.now()
	e, ok := s.items[sessionID]
	if !ok || !now.Before(e.expires) {
		s.sweep(now)
		e = &memoryEntry{}
		s.items[sessionID] = e
	}
	e.expires = now.Add(s.ttl)
	return e
}

func (s *MemoryStore) sweep(now time.Time) {
	for id, e := range s.items {
		if !now.Before(e.expires) {
			delete(s.items, id)
		}
	}
}
