package pagewatch

import (
	"context"
	"time"
)

// AddressStore persists registered addresses. Uniqueness of the canonical
// name is enforced here, not at the caller: concurrent registrations racing
// past an existence check must still collapse into ErrDuplicate.
type AddressStore interface {
	// Save inserts a new address and returns it with its assigned ID.
	// Returns ErrDuplicate when the name is already registered.
	Save(ctx context.Context, name string) (Address, error)
	// Find returns the address with the given ID, or ErrNotFound.
	Find(ctx context.Context, id int64) (Address, error)
	// FindByName returns the address with the given canonical name, or ErrNotFound.
	FindByName(ctx context.Context, name string) (Address, error)
	// All lists addresses in creation order. A non-empty term filters by
	// case-insensitive substring match on the name before ordering.
	All(ctx context.Context, term string) ([]Address, error)
	// DeleteAll removes every address and, through the schema cascade,
	// every check. Test/reset utility only.
	DeleteAll(ctx context.Context) error
}

// CheckStore persists the append-only check history per address.
type CheckStore interface {
	// Save inserts a check and returns it with its assigned ID.
	Save(ctx context.Context, check Check) (Check, error)
	// FindByAddress returns all checks for an address, most recent first.
	// An address with no checks yields an empty slice, not an error.
	FindByAddress(ctx context.Context, addressID int64) ([]Check, error)
	// LatestFor returns the most recent check for an address, or nil.
	LatestFor(ctx context.Context, addressID int64) (*Check, error)
	// LatestForMany returns the most recent check per address in one
	// round trip. Addresses with no checks are absent from the map.
	LatestForMany(ctx context.Context, addressIDs []int64) (map[int64]Check, error)
	// DeleteAll removes every check. Test/reset utility only.
	DeleteAll(ctx context.Context) error
}

// Fetcher issues a single outbound GET and returns the raw response.
// Transport-level failures (refused connection, timeout, DNS) come back as
// errors; an HTTP error status is still a successful fetch.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (FetchResponse, error)
}

// Clock returns the current time (swappable for tests).
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock with time.Now.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }
