package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagewatch/internal/pagewatch"
)

func TestAddressStoreSave(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO addresses").
		WithArgs("https://example.com", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	store := NewAddressStore(mock)
	address, err := store.Save(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(7), address.ID)
	assert.Equal(t, "https://example.com", address.Name)
	assert.False(t, address.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressStoreSaveMapsUniqueViolation(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO addresses").
		WithArgs("https://example.com", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "addresses_name_key"})

	store := NewAddressStore(mock)
	_, err = store.Save(context.Background(), "https://example.com")
	assert.ErrorIs(t, err, pagewatch.ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressStoreFindNotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, name, created_at FROM addresses WHERE id").
		WithArgs(int64(42)).
		WillReturnError(pgx.ErrNoRows)

	store := NewAddressStore(mock)
	_, err = store.Find(context.Background(), 42)
	assert.ErrorIs(t, err, pagewatch.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressStoreFindByName(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	createdAt := time.Unix(1700000000, 0).UTC()
	mock.ExpectQuery("SELECT id, name, created_at FROM addresses WHERE LOWER").
		WithArgs("https://example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "created_at"}).
			AddRow(int64(3), "https://example.com", createdAt))

	store := NewAddressStore(mock)
	address, err := store.FindByName(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(3), address.ID)
	assert.Equal(t, createdAt, address.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressStoreAllWithFilter(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	createdAt := time.Unix(1700000000, 0).UTC()
	mock.ExpectQuery("SELECT id, name, created_at FROM addresses WHERE name ILIKE").
		WithArgs("example").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "created_at"}).
			AddRow(int64(1), "https://example.com", createdAt))

	store := NewAddressStore(mock)
	addresses, err := store.All(context.Background(), "example")
	require.NoError(t, err)
	require.Len(t, addresses, 1)
	assert.Equal(t, "https://example.com", addresses[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressStoreDeleteAll(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM addresses").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	store := NewAddressStore(mock)
	require.NoError(t, store.DeleteAll(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
