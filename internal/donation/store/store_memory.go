package store

import (
	"context"
	"fmt"
	"sync"

	"donorlink/internal/donation/models"
)

// InMemoryStore keeps donation collections in process memory, preserving
// insertion order. Re-saving an existing ID replaces it in place.
type InMemoryStore struct {
	mu          sync.RWMutex
	collections map[models.Category][]models.DonationRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		collections: make(map[models.Category][]models.DonationRecord),
	}
}

// Fetch returns a copy of the collection; callers may not mutate store state.
func (s *InMemoryStore) Fetch(_ context.Context, category models.Category) ([]models.DonationRecord, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.collections[category]
	out := make([]models.DonationRecord, len(src))
	copy(out, src)
	return out, nil
}

// SaveBatch upserts records into one collection.
func (s *InMemoryStore) SaveBatch(_ context.Context, category models.Category, records []models.DonationRecord) error {
	if !category.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.collections[category]
	index := make(map[string]int, len(current))
	for i, r := range current {
		index[r.ID] = i
	}
	for _, r := range normalize(category, records) {
		if i, ok := index[r.ID]; ok {
			current[i] = r
			continue
		}
		index[r.ID] = len(current)
		current = append(current, r)
	}
	s.collections[category] = current
	return nil
}
