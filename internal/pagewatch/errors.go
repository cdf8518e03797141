package pagewatch

import "errors"

// Store-level error sentinels. Stores wrap driver errors into these so that
// callers can branch without knowing the backend.
var (
	// ErrNotFound is returned when a requested address does not exist.
	ErrNotFound = errors.New("address not found")
	// ErrDuplicate is returned when saving an address whose canonical
	// name is already registered.
	ErrDuplicate = errors.New("address already registered")
)
