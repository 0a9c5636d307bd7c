package mintstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/chainsafe/nft-minter/pkg/mint"
)

type memoryStore struct {
	mu       sync.RWMutex
	attempts map[uuid.UUID]*mint.Attempt
}

// NewMemoryStore creates an in-process store used when no database is configured.
func NewMemoryStore() Store {
	return &memoryStore{attempts: make(map[uuid.UUID]*mint.Attempt)}
}

func (s *memoryStore) CreateAttempt(_ context.Context, attempt *mint.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.attempts[attempt.ID]; exists {
		return fmt.Errorf("failed to create mint attempt: duplicate id %s", attempt.ID)
	}
	s.attempts[attempt.ID] = attempt.Clone()
	return nil
}

func (s *memoryStore) UpdateAttempt(_ context.Context, attempt *mint.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.attempts[attempt.ID]; !exists {
		return ErrNotFound
	}
	s.attempts[attempt.ID] = attempt.Clone()
	return nil
}

func (s *memoryStore) GetAttempt(_ context.Context, id uuid.UUID) (*mint.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.attempts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a.Clone(), nil
}

func (s *memoryStore) ListAttempts(_ context.Context, opts ...QueryOption) ([]*mint.Attempt, error) {
	options := applyQueryOptions(opts)

	s.mu.RLock()
	out := make([]*mint.Attempt, 0, len(s.attempts))
	for _, a := range s.attempts {
		if options.Operator != nil && a.Operator != *options.Operator {
			continue
		}
		if options.State != nil && a.State != *options.State {
			continue
		}
		out = append(out, a.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > options.Limit {
		out = out[:options.Limit]
	}
	return out, nil
}
