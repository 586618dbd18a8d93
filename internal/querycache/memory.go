package querycache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	entry    Entry
	lastUsed time.Time
}

// MemoryStore keeps entries in process. Entries idle for longer than gcTime are swept on
// the next write.
type MemoryStore struct {
	mu     sync.Mutex
	items  map[string]*memoryItem
	gcTime time.Duration
	now    func() time.Time
}

func NewMemoryStore(gcTime time.Duration) *MemoryStore {
	return &MemoryStore{
		items:  make(map[string]*memoryItem),
		gcTime: gcTime,
		now:    time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[key]
	if !ok {
		return Entry{}, false, nil
	}
	now := s.now()
	if s.expired(it, now) {
		delete(s.items, key)
		return Entry{}, false, nil
	}
	it.lastUsed = now
	return it.entry, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)
	s.items[key] = &memoryItem{entry: e, lastUsed: now}
	return nil
}

func (s *MemoryStore) DeletePrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k := range s.items {
		if under(k, prefix) {
			delete(s.items, k)
		}
	}
	return nil
}

// Len returns the number of live entries.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(s.now())
	return len(s.items)
}

func (s *MemoryStore) expired(it *memoryItem, now time.Time) bool {
	return s.gcTime > 0 && now.Sub(it.lastUsed) > s.gcTime
}

func (s *MemoryStore) sweep(now time.Time) {
	for k, it := range s.items {
		if s.expired(it, now) {
			delete(s.items, k)
		}
	}
}
