// SPDX-License-Identifier: MIT

package docstore

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// MemoryStore keeps documents in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (s *MemoryStore) ReadText(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.docs[location]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, location)
	}
	return slices.Clone(data), nil
}

func (s *MemoryStore) WriteText(ctx context.Context, location string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if location == "" {
		return fmt.Errorf("empty location")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[location] = slices.Clone(data)
	return nil
}

// Locations lists stored locations in sorted order.
func (s *MemoryStore) Locations() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.docs))
	for loc := range s.docs {
		out = append(out, loc)
	}
	slices.Sort(out)
	return out
}

func (s *MemoryStore) Close() error { return nil }
