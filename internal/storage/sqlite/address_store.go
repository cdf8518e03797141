package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pagewatch/internal/pagewatch"
)

// AddressStore implements pagewatch.AddressStore on SQLite.
type AddressStore struct {
	db *sql.DB
}

// NewAddressStore constructs an AddressStore over an opened database.
func NewAddressStore(db *sql.DB) *AddressStore {
	return &AddressStore{db: db}
}

// Save inserts a new address. The unique index on LOWER(name) turns a
// racing duplicate insert into pagewatch.ErrDuplicate.
func (s *AddressStore) Save(ctx context.Context, name string) (pagewatch.Address, error) {
	createdAt := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO addresses (name, created_at) VALUES (?, ?)`,
		name, encodeTime(createdAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") ||
			strings.Contains(err.Error(), "constraint failed: addresses_name_key") {
			return pagewatch.Address{}, pagewatch.ErrDuplicate
		}
		return pagewatch.Address{}, fmt.Errorf("insert address: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return pagewatch.Address{}, fmt.Errorf("read inserted address id: %w", err)
	}
	return pagewatch.Address{ID: id, Name: name, CreatedAt: createdAt}, nil
}

// Find returns the address with the given ID.
func (s *AddressStore) Find(ctx context.Context, id int64) (pagewatch.Address, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM addresses WHERE id = ?`, id)
	return scanAddress(row)
}

// FindByName returns the address with the given canonical name.
func (s *AddressStore) FindByName(ctx context.Context, name string) (pagewatch.Address, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM addresses WHERE LOWER(name) = LOWER(?)`, name)
	return scanAddress(row)
}

// All lists addresses in creation order, optionally filtered by a
// case-insensitive substring match on the name.
func (s *AddressStore) All(ctx context.Context, term string) ([]pagewatch.Address, error) {
	query := `SELECT id, name, created_at FROM addresses ORDER BY id`
	args := []any{}
	if term != "" {
		query = `SELECT id, name, created_at FROM addresses
			WHERE instr(LOWER(name), LOWER(?)) > 0 ORDER BY id`
		args = append(args, term)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select addresses: %w", err)
	}
	defer rows.Close()

	var addresses []pagewatch.Address
	for rows.Next() {
		var (
			address pagewatch.Address
			created string
		)
		if err := rows.Scan(&address.ID, &address.Name, &created); err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		if address.CreatedAt, err = decodeTime(created); err != nil {
			return nil, err
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
	if _, err := s.db.ExecContext(ctx, `DELETE FROM addresses`); err != nil {
		return fmt.Errorf("delete addresses: %w", err)
	}
	return nil
}

func scanAddress(row *sql.Row) (pagewatch.Address, error) {
	var (
		address pagewatch.Address
		created string
	)
	err := row.Scan(&address.ID, &address.Name, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return pagewatch.Address{}, pagewatch.ErrNotFound
	}
	if err != nil {
		return pagewatch.Address{}, fmt.Errorf("scan address: %w", err)
	}
	if address.CreatedAt, err = decodeTime(created); err != nil {
		return pagewatch.Address{}, err
	}
	return address, nil
}
