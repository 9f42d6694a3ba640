package trend

import (
	"context"
	"sync"
	"time"

	"dfinspect/internal/df"
)

type memEntry struct {
	state     df.TrendState
	updatedAt time.Time
}

// MemoryStore is a non-persistent Store, used for one-shot checks.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memEntry
	locks   *keyedMutex
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memEntry),
		locks:   newKeyedMutex(),
		now:     time.Now,
	}
}

// ForHost implements Store.
func (s *MemoryStore) ForHost(host string) df.TrendStore {
	return hostView{b: s, host: host}
}

// Prune implements Store.
func (s *MemoryStore) Prune(_ context.Context, olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k, e := range s.entries {
		if e.updatedAt.Before(olderThan) {
			delete(s.entries, k)
			n++
		}
	}
	return n, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

// Len returns the number of stored keys.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) lock(host, key string) func() {
	return s.locks.Lock(lockKey(host, key))
}

func (s *MemoryStore) load(_ context.Context, host, key string) (df.TrendState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[lockKey(host, key)]
	return e.state, ok, nil
}

func (s *MemoryStore) save(_ context.Context, host, key string, state df.TrendState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[lockKey(host, key)] = memEntry{state: state, updatedAt: s.now()}
	return nil
}
