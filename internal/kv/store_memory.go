package kv

import (
	"context"
	"sort"
	"strings"
	"sync"
)

type MemStore struct {
	mu sync.RWMutex
	m  map[string]Record
}

func NewMemStore() *MemStore {
	return &MemStore{m: map[string]Record{}}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Get(ctx context.Context, key string) (Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.m[key]
	return rec, ok, nil
}

func (s *MemStore) GetByPrefix(ctx context.Context, prefix string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, 16)
	for k, rec := range s.m {
		if strings.HasPrefix(k, prefix) {
			out = append(out, rec)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *MemStore) Apply(ctx context.Context, writes ...Write) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Check every condition before touching anything.
	for _, w := range writes {
		if w.Revision == AnyRevision {
			continue
		}
		cur := s.m[w.Key].Revision
		if cur != w.Revision {
			return ErrRevisionMismatch
		}
	}

	for _, w := range writes {
		val := make([]byte, len(w.Value))
		copy(val, w.Value)

		s.m[w.Key] = Record{
			Key:      w.Key,
			Value:    val,
			Revision: s.m[w.Key].Revision + 1,
		}
	}

	return nil
}

func (s *MemStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.m, key)
	return nil
}
