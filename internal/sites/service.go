// Package sites implements registration and listing of check targets.
package sites

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"pagewatch/internal/normalize"
	"pagewatch/internal/pagewatch"
)

// Service owns the registration flow and the read views over addresses and
// their check history.
type Service struct {
	addresses pagewatch.AddressStore
	checks    pagewatch.CheckStore
	logger    *zap.Logger
}

// NewService constructs a Service.
func NewService(addresses pagewatch.AddressStore, checks pagewatch.CheckStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{addresses: addresses, checks: checks, logger: logger}
}

// Register normalizes raw input and saves a new address. Rejections from the
// normalizer pass through unchanged; an already-registered key returns
// pagewatch.ErrDuplicate whether it is caught by the existence check or by
// the store's uniqueness constraint on a racing save.
func (s *Service) Register(ctx context.Context, raw string) (pagewatch.Address, error) {
	name, err := normalize.Normalize(raw)
	if err != nil {
		return pagewatch.Address{}, err
	}

	_, err = s.addresses.FindByName(ctx, name)
	switch {
	case err == nil:
		return pagewatch.Address{}, pagewatch.ErrDuplicate
	case !errors.Is(err, pagewatch.ErrNotFound):
		return pagewatch.Address{}, fmt.Errorf("look up %q: %w", name, err)
	}

	address, err := s.addresses.Save(ctx, name)
	if err != nil {
		if errors.Is(err, pagewatch.ErrDuplicate) {
			// Lost the race between existence check and save.
			return pagewatch.Address{}, pagewatch.ErrDuplicate
		}
		return pagewatch.Address{}, fmt.Errorf("save %q: %w", name, err)
	}

	s.logger.Info("address registered",
		zap.Int64("id", address.ID),
		zap.String("name", address.Name),
	)
	return address, nil
}

// List returns all addresses in creation order, each joined with its most
// recent check. A non-empty term filters addresses by case-insensitive
// substring match on the canonical name.
func (s *Service) List(ctx context.Context, term string) ([]pagewatch.AddressListing, error) {
	addresses, err := s.addresses.All(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	if len(addresses) == 0 {
		return []pagewatch.AddressListing{}, nil
	}

	ids := make([]int64, len(addresses))
	for i, address := range addresses {
		ids[i] = address.ID
	}
	latest, err := s.checks.LatestForMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load latest checks: %w", err)
	}

	listings := make([]pagewatch.AddressListing, len(addresses))
	for i, address := range addresses {
		listings[i] = pagewatch.AddressListing{Address: address}
		if check, ok := latest[address.ID]; ok {
			c := check
			listings[i].Latest = &c
		}
	}
	return listings, nil
}

// Show returns one address and its full check history, newest first.
func (s *Service) Show(ctx context.Context, id int64) (pagewatch.Address, []pagewatch.Check, error) {
	address, err := s.addresses.Find(ctx, id)
	if err != nil {
		return pagewatch.Address{}, nil, err
	}
	checks, err := s.checks.FindByAddress(ctx, id)
	if err != nil {
		return pagewatch.Address{}, nil, fmt.Errorf("load checks for address %d: %w", id, err)
	}
	return address, checks, nil
}

// Reset wipes all checks and addresses. Test/reset utility, not part of
// normal operation.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.checks.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear checks: %w", err)
	}
	if err := s.addresses.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear addresses: %w", err)
	}
	return nil
}
