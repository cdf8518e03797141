// Package pagewatch defines the core types shared across subsystems.
package pagewatch

import (
	"database/sql"
	"time"
)

// Address is a registered check target. Name holds the canonical key in the
// form scheme://host[:port] and is unique across all addresses.
type Address struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Signals are the DOM signals extracted from a fetched page. Each field is
// independently optional: Valid reports whether the element was present at
// all, so an empty description attribute stays distinct from a missing one.
type Signals struct {
	Title       sql.NullString
	Heading     sql.NullString
	Description sql.NullString
}

// Check records one fetch and inspection of an Address at a point in time.
// A Check row exists only for fetches that produced an HTTP response; a
// transport failure leaves no record.
type Check struct {
	ID          int64
	AddressID   int64
	StatusCode  int
	Title       sql.NullString
	Heading     sql.NullString
	Description sql.NullString
	CreatedAt   time.Time
}

// AddressListing pairs an Address with its most recent Check, if any.
type AddressListing struct {
	Address Address
	Latest  *Check
}

// FetchResponse is returned by a Fetcher on HTTP success, whatever the
// status code.
type FetchResponse struct {
	StatusCode int
	Body       []byte
	Duration   time.Duration
}
