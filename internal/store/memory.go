package store

import (
	"context"
	"sync"

	"github.com/pageza/recipe-box/backend/internal/model"
)

// MemoryStore holds the collection in process memory. LoadErr and SaveErr,
// when set, are returned instead of performing the operation.
type MemoryStore struct {
	mu      sync.Mutex
	records []model.Recipe
	saves   int

	LoadErr error
	SaveErr error
}

// NewMemoryStore returns a MemoryStore seeded with a copy of records.
func NewMemoryStore(records ...model.Recipe) *MemoryStore {
	return &MemoryStore{records: cloneAll(records)}
}

func (s *MemoryStore) LoadAll(ctx context.Context) ([]model.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	return cloneAll(s.records), nil
}

func (s *MemoryStore) SaveAll(ctx context.Context, records []model.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.records = cloneAll(records)
	s.saves++
	return nil
}

// Saves reports how many successful SaveAll calls were made.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func cloneAll(records []model.Recipe) []model.Recipe {
	out := make([]model.Recipe, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
