package memory

import (
	"context"
	"sort"
	"sync"

	"pagewatch/internal/pagewatch"
)

// CheckStore keeps check history in process memory.
type CheckStore struct {
	mu        sync.RWMutex
	nextID    int64
	byAddress map[int64][]pagewatch.Check
}

// NewCheckStore constructs a CheckStore.
func NewCheckStore() *CheckStore {
	return &CheckStore{byAddress: make(map[int64][]pagewatch.Check)}
}

// Save appends a check and assigns its ID.
func (s *CheckStore) Save(_ context.Context, check pagewatch.Check) (pagewatch.Check, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	check.ID = s.nextID
	s.byAddress[check.AddressID] = append(s.byAddress[check.AddressID], check)
	return check, nil
}

// FindByAddress returns all checks for an address, most recent first with
// higher IDs winning ties.
func (s *CheckStore) FindByAddress(_ context.Context, addressID int64) ([]pagewatch.Check, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	checks := append([]pagewatch.Check(nil), s.byAddress[addressID]...)
	sort.SliceStable(checks, func(i, j int) bool {
		if !checks[i].CreatedAt.Equal(checks[j].CreatedAt) {
			return checks[i].CreatedAt.After(checks[j].CreatedAt)
		}
		return checks[i].ID > checks[j].ID
	})
	return checks, nil
}

// LatestFor returns the most recent check for an address, or nil.
func (s *CheckStore) LatestFor(_ context.Context, addressID int64) (*pagewatch.Check, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latestLocked(addressID), nil
}

// LatestForMany returns the most recent check per address. Addresses with
// no checks are absent from the result.
func (s *CheckStore) LatestForMany(_ context.Context, addressIDs []int64) (map[int64]pagewatch.Check, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	latest := make(map[int64]pagewatch.Check, len(addressIDs))
	for _, id := range addressIDs {
		if check := s.latestLocked(id); check != nil {
			latest[id] = *check
		}
	}
	return latest, nil
}

// DeleteAll removes every check.
func (s *CheckStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byAddress = make(map[int64][]pagewatch.Check)
	return nil
}

func (s *CheckStore) latestLocked(addressID int64) *pagewatch.Check {
	var latest *pagewatch.Check
	for i := range s.byAddress[addressID] {
		check := s.byAddress[addressID][i]
		if latest == nil ||
			check.CreatedAt.After(latest.CreatedAt) ||
			(check.CreatedAt.Equal(latest.CreatedAt) && check.ID > latest.ID) {
			c := check
			latest = &c
		}
	}
	return latest
}
