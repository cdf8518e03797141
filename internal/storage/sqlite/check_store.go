package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pagewatch/internal/pagewatch"
)

// CheckStore implements pagewatch.CheckStore on SQLite.
type CheckStore struct {
	db *sql.DB
}

// NewCheckStore constructs a CheckStore over an opened database.
func NewCheckStore(db *sql.DB) *CheckStore {
	return &CheckStore{db: db}
}

// Save inserts a check and assigns its ID.
func (s *CheckStore) Save(ctx context.Context, check pagewatch.Check) (pagewatch.Check, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO checks (address_id, status_code, title, h1, description, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
		check.AddressID,
		check.StatusCode,
		check.Title,
		check.Heading,
		check.Description,
		encodeTime(check.CreatedAt),
	)
	if err != nil {
		return pagewatch.Check{}, fmt.Errorf("insert check: %w", err)
	}
	if check.ID, err = result.LastInsertId(); err != nil {
		return pagewatch.Check{}, fmt.Errorf("read inserted check id: %w", err)
	}
	return check, nil
}

// FindByAddress returns all checks for an address, most recent first.
func (s *CheckStore) FindByAddress(ctx context.Context, addressID int64) ([]pagewatch.Check, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, address_id, status_code, title, h1, description, created_at
			FROM checks WHERE address_id = ? ORDER BY created_at DESC, id DESC`,
		addressID,
	)
	if err != nil {
		return nil, fmt.Errorf("select checks: %w", err)
	}
	defer rows.Close()
	return scanChecks(rows)
}

// LatestFor returns the most recent check for an address, or nil.
func (s *CheckStore) LatestFor(ctx context.Context, addressID int64) (*pagewatch.Check, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, address_id, status_code, title, h1, description, created_at
			FROM checks WHERE address_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		addressID,
	)
	check, err := scanCheckRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &check, nil
}

// LatestForMany returns the most recent check per address. Addresses with
// no checks are absent from the result.
func (s *CheckStore) LatestForMany(ctx context.Context, addressIDs []int64) (map[int64]pagewatch.Check, error) {
	latest := make(map[int64]pagewatch.Check, len(addressIDs))
	if len(addressIDs) == 0 {
		return latest, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(addressIDs)), ",")
	args := make([]any, len(addressIDs))
	for i, id := range addressIDs {
		args[i] = id
	}
	query := `SELECT c.id, c.address_id, c.status_code, c.title, c.h1, c.description, c.created_at
		FROM checks c
		WHERE c.address_id IN (` + placeholders + `)
		  AND c.id = (
			SELECT c2.id FROM checks c2 WHERE c2.address_id = c.address_id
			ORDER BY c2.created_at DESC, c2.id DESC LIMIT 1
		  )`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select latest checks: %w", err)
	}
	defer rows.Close()

	checks, err := scanChecks(rows)
	if err != nil {
		return nil, err
	}
	for _, check := range checks {
		latest[check.AddressID] = check
	}
	return latest, nil
}

// DeleteAll removes every check.
func (s *CheckStore) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM checks`); err != nil {
		return fmt.Errorf("delete checks: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCheckInto(sc scanner) (pagewatch.Check, error) {
	var (
		check   pagewatch.Check
		created string
	)
	err := sc.Scan(
		&check.ID,
		&check.AddressID,
		&check.StatusCode,
		&check.Title,
		&check.Heading,
		&check.Description,
		&created,
	)
	if err != nil {
		return pagewatch.Check{}, err
	}
	if check.CreatedAt, err = decodeTime(created); err != nil {
		return pagewatch.Check{}, err
	}
	return check, nil
}

func scanCheckRow(row *sql.Row) (pagewatch.Check, error) {
	check, err := scanCheckInto(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pagewatch.Check{}, err
		}
		return pagewatch.Check{}, fmt.Errorf("scan check: %w", err)
	}
	return check, nil
}

func scanChecks(rows *sql.Rows) ([]pagewatch.Check, error) {
	var checks []pagewatch.Check
	for rows.Next() {
		check, err := scanCheckInto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan check: %w", err)
		}
		checks = append(checks, check)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checks: %w", err)
	}
	return checks, nil
}
