package cart

import (
	"context"
	"sync"
)

// MemoryStore keeps cart snapshots in process memory. It backs tests and
// single-instance development runs; production uses the Redis or Postgres
// store.
type MemoryStore struct {
	mu        sync.Mutex
	carts     map[string][]Line
	discounts map[string]float64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts:     make(map[string][]Line),
		discounts: make(map[string]float64),
	}
}

func (s *MemoryStore) LoadCart(_ context.Context, cartID string) ([]Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.carts[cartID]
	lines := make([]Line, len(stored))
	copy(lines, stored)
	return lines, nil
}

func (s *MemoryStore) SaveCart(_ context.Context, cartID string, lines []Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]Line, len(lines))
	copy(snapshot, lines)
	s.carts[cartID] = snapshot
	return nil
}

func (s *MemoryStore) LoadDiscount(_ context.Context, cartID string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discounts[cartID], nil
}

func (s *MemoryStore) SaveDiscount(_ context.Context, cartID string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discounts[cartID] = amount
	return nil
}

func (s *MemoryStore) ClearDiscount(_ context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.discounts, cartID)
	return nil
}
