// Package check orchestrates one fetch-inspect-persist cycle per address.
package check

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"pagewatch/internal/events"
	"pagewatch/internal/inspect"
	"pagewatch/internal/pagewatch"
)

// Outcome classifies a pipeline run for the caller.
type Outcome int

const (
	// OutcomeRecorded means a new Check row was persisted.
	OutcomeRecorded Outcome = iota
	// OutcomeAddressNotFound means the address ID resolved to nothing.
	OutcomeAddressNotFound
	// OutcomeCheckFailed means the remote host could not be reached; no
	// Check row was created.
	OutcomeCheckFailed
)

// Result is returned by Run for every non-fatal outcome. Cause carries the
// transport failure for user-facing messaging on OutcomeCheckFailed; it is
// never persisted.
type Result struct {
	Outcome Outcome
	Check   pagewatch.Check
	Cause   error
}

// Pipeline runs checks: resolve the address, fetch it once, inspect the
// body, and append a Check record. Transport failures are expected and
// recorded nowhere; store failures are fatal to the run.
type Pipeline struct {
	addresses pagewatch.AddressStore
	checks    pagewatch.CheckStore
	fetcher   pagewatch.Fetcher
	clock     pagewatch.Clock
	hub       *events.Hub
	logger    *zap.Logger
}

// New constructs a Pipeline.
func New(
	addresses pagewatch.AddressStore,
	checks pagewatch.CheckStore,
	fetcher pagewatch.Fetcher,
	clock pagewatch.Clock,
	hub *events.Hub,
	logger *zap.Logger,
) *Pipeline {
	if clock == nil {
		clock = pagewatch.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		addresses: addresses,
		checks:    checks,
		fetcher:   fetcher,
		clock:     clock,
		hub:       hub,
		logger:    logger,
	}
}

// Run executes one check against the address with the given ID. The error
// return is reserved for store failures; everything expected comes back in
// the Result.
func (p *Pipeline) Run(ctx context.Context, addressID int64) (Result, error) {
	address, err := p.addresses.Find(ctx, addressID)
	if err != nil {
		if errors.Is(err, pagewatch.ErrNotFound) {
			p.emit(events.Event{AddressID: addressID, Outcome: events.OutcomeAddressNotFound})
			return Result{Outcome: OutcomeAddressNotFound}, nil
		}
		return Result{}, fmt.Errorf("resolve address %d: %w", addressID, err)
	}

	response, err := p.fetcher.Fetch(ctx, address.Name)
	if err != nil {
		p.logger.Warn("check fetch failed",
			zap.Int64("address_id", address.ID),
			zap.String("url", address.Name),
			zap.Error(err),
		)
		p.emit(events.Event{
			AddressID: address.ID,
			URL:       address.Name,
			Outcome:   events.OutcomeCheckFailed,
			At:        p.clock.Now(),
		})
		return Result{Outcome: OutcomeCheckFailed, Cause: err}, nil
	}

	// Error-status pages are inspected too; a 404's title is still a signal.
	signals := inspect.Inspect(response.Body)

	saved, err := p.checks.Save(ctx, pagewatch.Check{
		AddressID:   address.ID,
		StatusCode:  response.StatusCode,
		Title:       signals.Title,
		Heading:     signals.Heading,
		Description: signals.Description,
		CreatedAt:   p.clock.Now(),
	})
	if err != nil {
		p.emit(events.Event{
			AddressID: address.ID,
			URL:       address.Name,
			Outcome:   events.OutcomeStoreError,
			At:        p.clock.Now(),
		})
		return Result{}, fmt.Errorf("save check for address %d: %w", address.ID, err)
	}

	p.emit(events.Event{
		AddressID:  address.ID,
		URL:        address.Name,
		Outcome:    events.OutcomeRecorded,
		StatusCode: response.StatusCode,
		Bytes:      int64(len(response.Body)),
		Dur:        response.Duration,
		At:         saved.CreatedAt,
	})
	return Result{Outcome: OutcomeRecorded, Check: saved}, nil
}

func (p *Pipeline) emit(event events.Event) {
	if p.hub != nil {
		p.hub.Emit(event)
	}
}
