// Package events fans check outcomes out to in-process sinks.
//
// Every pipeline run emits exactly one Event; sinks turn the stream into
// logs and metrics. Emission never blocks the check path.
package events

import "time"

// Outcome labels attached to emitted events.
const (
	OutcomeRecorded        = "recorded"
	OutcomeAddressNotFound = "address_not_found"
	OutcomeCheckFailed     = "check_failed"
	OutcomeStoreError      = "store_error"
)

// Event describes one completed check attempt.
type Event struct {
	AddressID  int64
	URL        string
	Outcome    string
	StatusCode int
	Bytes      int64
	Dur        time.Duration
	At         time.Time
}

// Sink consumes events. Implementations must be safe for calls from the
// hub's dispatch goroutine only.
type Sink interface {
	Consume(event Event)
}
