package cache

import (
	"sync"
	"time"
)

// MemoryStore is a map-backed Store for single-process use and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

// Get returns the entry for the hash, or nil when absent.
func (s *MemoryStore) Get(hash string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[hash]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// Upsert stores the entry, superseding any previous row with the same hash.
func (s *MemoryStore) Upsert(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entry.InputsHash] = entry
	return nil
}

// DeleteExpired removes rows whose expiry precedes now.
func (s *MemoryStore) DeleteExpired(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for hash, entry := range s.entries {
		if entry.ExpiresAt.Before(now) {
			delete(s.entries, hash)
		}
	}
	return nil
}

// Len reports the number of stored rows.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
