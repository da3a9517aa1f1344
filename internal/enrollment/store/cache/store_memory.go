package cache

import (
	"context"
	"sync"
	"time"

	"coursebatch/pkg/platform/sentinel"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

const defaultSweepEvery = 256

// InMemoryStore is a process-local TTL cache. Expired entries are dropped when
// read and swept from the whole map every sweepEvery writes.
type InMemoryStore struct {
	mu         sync.RWMutex
	entries    map[string]entry
	clock      func() time.Time
	sweepEvery int
	writes     int
}

type Option func(*InMemoryStore)

func WithClock(clock func() time.Time) Option {
	return func(s *InMemoryStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func WithSweepEvery(n int) Option {
	return func(s *InMemoryStore) {
		if n > 0 {
			s.sweepEvery = n
		}
	}
}

func NewInMemory(opts ...Option) *InMemoryStore {
	s := &InMemoryStore{
		entries:    make(map[string]entry),
		clock:      time.Now,
		sweepEvery: defaultSweepEvery,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if !s.clock().Before(e.expiresAt) {
		s.mu.Lock()
		if cur, ok := s.entries[key]; ok && !s.clock().Before(cur.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, sentinel.ErrNotFound
	}
	return e.value, nil
}

func (s *InMemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock()
	s.entries[key] = entry{value: value, expiresAt: now.Add(ttl)}
	s.writes++
	if s.writes >= s.sweepEvery {
		s.writes = 0
		for k, e := range s.entries {
			if !now.Before(e.expiresAt) {
				delete(s.entries, k)
			}
		}
	}
	return nil
}

// Len counts stored entries, expired ones included until they are swept.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
