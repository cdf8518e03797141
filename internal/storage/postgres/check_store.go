package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"pagewatch/internal/pagewatch"
)

const checkColumns = `id, address_id, status_code, title, h1, description, created_at`

// CheckStore implements pagewatch.CheckStore on Postgres.
type CheckStore struct {
	db DBConn
}

// NewCheckStore constructs a CheckStore over the given connection.
func NewCheckStore(db DBConn) *CheckStore {
	return &CheckStore{db: db}
}

// Save inserts a check and assigns its ID.
func (s *CheckStore) Save(ctx context.Context, check pagewatch.Check) (pagewatch.Check, error) {
	query := `INSERT INTO checks (address_id, status_code, title, h1, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := s.db.QueryRow(ctx, query,
		check.AddressID,
		check.StatusCode,
		check.Title,
		check.Heading,
		check.Description,
		check.CreatedAt,
	).Scan(&check.ID)
	if err != nil {
		return pagewatch.Check{}, fmt.Errorf("insert check: %w", err)
	}
	return check, nil
}

// FindByAddress returns all checks for an address, most recent first.
func (s *CheckStore) FindByAddress(ctx context.Context, addressID int64) ([]pagewatch.Check, error) {
	query := `SELECT ` + checkColumns + ` FROM checks
		WHERE address_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := s.db.Query(ctx, query, addressID)
	if err != nil {
		return nil, fmt.Errorf("select checks: %w", err)
	}
	defer rows.Close()
	return scanChecks(rows)
}

// LatestFor returns the most recent check for an address, or nil.
func (s *CheckStore) LatestFor(ctx context.Context, addressID int64) (*pagewatch.Check, error) {
	query := `SELECT ` + checkColumns + ` FROM checks
		WHERE address_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1`
	check, err := scanCheck(s.db.QueryRow(ctx, query, addressID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select latest check: %w", err)
	}
	return &check, nil
}

// LatestForMany returns the most recent check per address in a single
// query. Addresses with no checks are absent from the result.
func (s *CheckStore) LatestForMany(ctx context.Context, addressIDs []int64) (map[int64]pagewatch.Check, error) {
	latest := make(map[int64]pagewatch.Check, len(addressIDs))
	if len(addressIDs) == 0 {
		return latest, nil
	}
	query := `SELECT DISTINCT ON (address_id) ` + checkColumns + ` FROM checks
		WHERE address_id = ANY($1) ORDER BY address_id, created_at DESC, id DESC`
	rows, err := s.db.Query(ctx, query, addressIDs)
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
	if _, err := s.db.Exec(ctx, `DELETE FROM checks`); err != nil {
		return fmt.Errorf("delete checks: %w", err)
	}
	return nil
}

func scanCheck(row pgx.Row) (pagewatch.Check, error) {
	var check pagewatch.Check
	err := row.Scan(
		&check.ID,
		&check.AddressID,
		&check.StatusCode,
		&check.Title,
		&check.Heading,
		&check.Description,
		&check.CreatedAt,
	)
	return check, err
}

func scanChecks(rows pgx.Rows) ([]pagewatch.Check, error) {
	var checks []pagewatch.Check
	for rows.Next() {
		check, err := scanCheck(rows)
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
