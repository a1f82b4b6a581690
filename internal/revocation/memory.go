package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps revocations in process memory. Entries are lost on
// restart, which is safe: a revoked token that outlives the process is still
// bounded by its own expiry.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]int64
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]int64), now: time.Now}
}

func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	s := NewMemoryStore()
	s.now = now
	return s
}

func (s *MemoryStore) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	exp := expiresAt.Unix()
	if exp <= s.now().Unix() {
		return nil
	}

	s.mu.Lock()
	if _, ok := s.entries[token]; !ok {
		s.entries[token] = exp
	}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	exp, ok := s.entries[token]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}

	if exp > s.now().Unix() {
		return true, nil
	}

	s.mu.Lock()
	if cur, ok := s.entries[token]; ok && cur == exp {
		delete(s.entries, token)
	}
	s.mu.Unlock()
	return false, nil
}

func (s *MemoryStore) Sweep(_ context.Context, now time.Time) (int, error) {
	cutoff := now.Unix()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, exp := range s.entries {
		if exp <= cutoff {
			delete(s.entries, token)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
