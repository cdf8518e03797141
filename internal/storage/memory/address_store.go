// Package memory provides in-memory store implementations for development
// and testing.
package memory

import (
	"context"
	"strings"
	"sync"

	"pagewatch/internal/pagewatch"
)

// AddressStore keeps registered addresses in process memory.
type AddressStore struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]pagewatch.Address
	byName map[string]int64
	order  []int64
	clock  pagewatch.Clock
}

// NewAddressStore constructs an AddressStore. A nil clock falls back to the
// system clock.
func NewAddressStore(clock pagewatch.Clock) *AddressStore {
	if clock == nil {
		clock = pagewatch.SystemClock{}
	}
	return &AddressStore{
		byID:   make(map[int64]pagewatch.Address),
		byName: make(map[string]int64),
		clock:  clock,
	}
}

// Save inserts a new address, enforcing name uniqueness case-insensitively.
func (s *AddressStore) Save(_ context.Context, name string) (pagewatch.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(name)
	if _, exists := s.byName[key]; exists {
		return pagewatch.Address{}, pagewatch.ErrDuplicate
	}
	s.nextID++
	address := pagewatch.Address{
		ID:        s.nextID,
		Name:      name,
		CreatedAt: s.clock.Now(),
	}
	s.byID[address.ID] = address
	s.byName[key] = address.ID
	s.order = append(s.order, address.ID)
	return address, nil
}

// Find returns the address with the given ID.
func (s *AddressStore) Find(_ context.Context, id int64) (pagewatch.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	address, ok := s.byID[id]
	if !ok {
		return pagewatch.Address{}, pagewatch.ErrNotFound
	}
	return address, nil
}

// FindByName returns the address with the given canonical name.
func (s *AddressStore) FindByName(_ context.Context, name string) (pagewatch.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[strings.ToLower(name)]
	if !ok {
		return pagewatch.Address{}, pagewatch.ErrNotFound
	}
	return s.byID[id], nil
}

// All lists addresses in creation order, optionally filtered by a
// case-insensitive substring match on the name.
func (s *AddressStore) All(_ context.Context, term string) ([]pagewatch.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(term)
	addresses := make([]pagewatch.Address, 0, len(s.order))
	for _, id := range s.order {
		address := s.byID[id]
		if needle != "" && !strings.Contains(strings.ToLower(address.Name), needle) {
			continue
		}
		addresses = append(addresses, address)
	}
	return addresses, nil
}

// DeleteAll removes every address.
func (s *AddressStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[int64]pagewatch.Address)
	s.byName = make(map[string]int64)
	s.order = nil
	return nil
}
