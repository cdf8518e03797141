package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"pagewatch/internal/pagewatch"
)

// AddressStore implements pagewatch.AddressStore on Postgres. Uniqueness of
// the canonical name is backed by a unique index on LOWER(name), which is
// what closes the check-then-save registration race.
type AddressStore struct {
	db DBConn
}

// NewAddressStore constructs an AddressStore over the given connection.
func NewAddressStore(db DBConn) *AddressStore {
	return &AddressStore{db: db}
}

// Save inserts a new address.
func (s *AddressStore) Save(ctx context.Context, name string) (pagewatch.Address, error) {
	address := pagewatch.Address{
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	query := `INSERT INTO addresses (name, created_at) VALUES ($1, $2) RETURNING id`
	err := s.db.QueryRow(ctx, query, address.Name, address.CreatedAt).Scan(&address.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return pagewatch.Address{}, pagewatch.ErrDuplicate
		}
		return pagewatch.Address{}, fmt.Errorf("insert address: %w", err)
	}
	return address, nil
}

// Find returns the address with the given ID.
func (s *AddressStore) Find(ctx context.Context, id int64) (pagewatch.Address, error) {
	query := `SELECT id, name, created_at FROM addresses WHERE id = $1`
	var address pagewatch.Address
	err := s.db.QueryRow(ctx, query, id).Scan(&address.ID, &address.Name, &address.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return pagewatch.Address{}, pagewatch.ErrNotFound
	}
	if err != nil {
		return pagewatch.Address{}, fmt.Errorf("select address %d: %w", id, err)
	}
	return address, nil
}

// FindByName returns the address with the given canonical name.
func (s *AddressStore) FindByName(ctx context.Context, name string) (pagewatch.Address, error) {
	query := `SELECT id, name, created_at FROM addresses WHERE LOWER(name) = LOWER($1)`
	var address pagewatch.Address
	err := s.db.QueryRow(ctx, query, name).Scan(&address.ID, &address.Name, &address.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return pagewatch.Address{}, pagewatch.ErrNotFound
	}
	if err != nil {
		return pagewatch.Address{}, fmt.Errorf("select address %q: %w", name, err)
	}
	return address, nil
}

// All lists addresses in creation order, optionally filtered by a
// case-insensitive substring match on the name.
func (s *AddressStore) All(ctx context.Context, term string) ([]pagewatch.Address, error) {
	query := `SELECT id, name, created_at FROM addresses ORDER BY id`
	args := []any{}
	if term != "" {
		query = `SELECT id, name, created_at FROM addresses WHERE name ILIKE '%' || $1 || '%' ORDER BY id`
		args = append(args, term)
	}
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select addresses: %w", err)
	}
	defer rows.Close()

	var addresses []pagewatch.Address
	for rows.Next() {
		var address pagewatch.Address
		if err := rows.Scan(&address.ID, &address.Name, &address.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		addresses = append(addresses, address)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate addresses: %w", err)
	}
	return addresses, nil
}

// DeleteAll removes every address; checks go with them via the FK cascade.
func (s *AddressStore) DeleteAll(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM addresses`); err != nil {
		return fmt.Errorf("delete addresses: %w", err)
	}
	return nil
}
