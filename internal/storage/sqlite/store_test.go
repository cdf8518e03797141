package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagewatch/internal/pagewatch"
	"pagewatch/internal/storage/sqlite"
)

func openStores(t *testing.T) (*sqlite.AddressStore, *sqlite.CheckStore) {
	t.Helper()
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "pagewatch.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlite.NewAddressStore(db), sqlite.NewCheckStore(db)
}

func TestAddressRoundTrip(t *testing.T) {
	t.Parallel()
	addresses, _ := openStores(t)
	ctx := context.Background()

	saved, err := addresses.Save(ctx, "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	found, err := addresses.Find(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.Name, found.Name)
	assert.True(t, saved.CreatedAt.Equal(found.CreatedAt))

	byName, err := addresses.FindByName(ctx, "HTTPS://EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, byName.ID)
}

func TestAddressDuplicateName(t *testing.T) {
	t.Parallel()
	addresses, _ := openStores(t)
	ctx := context.Background()

	_, err := addresses.Save(ctx, "https://example.com")
	require.NoError(t, err)

	_, err = addresses.Save(ctx, "HTTPS://Example.com")
	assert.ErrorIs(t, err, pagewatch.ErrDuplicate)
}

func TestAddressFindMissing(t *testing.T) {
	t.Parallel()
	addresses, _ := openStores(t)

	_, err := addresses.Find(context.Background(), 404)
	assert.ErrorIs(t, err, pagewatch.ErrNotFound)
}

func TestAddressAllWithFilter(t *testing.T) {
	t.Parallel()
	addresses, _ := openStores(t)
	ctx := context.Background()

	for _, name := range []string{"https://alpha.test", "https://beta.test"} {
		_, err := addresses.Save(ctx, name)
		require.NoError(t, err)
	}

	all, err := addresses.All(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "https://alpha.test", all[0].Name)

	filtered, err := addresses.All(ctx, "BETA")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "https://beta.test", filtered[0].Name)
}

func TestCheckHistoryOrdering(t *testing.T) {
	t.Parallel()
	addresses, checks := openStores(t)
	ctx := context.Background()

	address, err := addresses.Save(ctx, "https://example.com")
	require.NoError(t, err)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, createdAt := range []time.Time{base, base.Add(time.Minute), base.Add(time.Minute)} {
		_, err := checks.Save(ctx, pagewatch.Check{
			AddressID:  address.ID,
			StatusCode: 200 + i,
			Title:      sql.NullString{String: "Example", Valid: true},
			CreatedAt:  createdAt,
		})
		require.NoError(t, err)
	}

	history, err := checks.FindByAddress(ctx, address.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	// Equal timestamps fall back to insertion order, newest first.
	assert.Equal(t, int64(3), history[0].ID)
	assert.Equal(t, int64(2), history[1].ID)
	assert.Equal(t, int64(1), history[2].ID)
	assert.True(t, history[0].Title.Valid)
	assert.False(t, history[0].Description.Valid)

	latest, err := checks.LatestFor(ctx, address.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, int64(3), latest.ID)
}

func TestCheckLatestForMany(t *testing.T) {
	t.Parallel()
	addresses, checks := openStores(t)
	ctx := context.Background()

	first, err := addresses.Save(ctx, "https://one.test")
	require.NoError(t, err)
	second, err := addresses.Save(ctx, "https://two.test")
	require.NoError(t, err)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	_, err = checks.Save(ctx, pagewatch.Check{AddressID: first.ID, StatusCode: 500, CreatedAt: base})
	require.NoError(t, err)
	newest, err := checks.Save(ctx, pagewatch.Check{AddressID: first.ID, StatusCode: 200, CreatedAt: base.Add(time.Hour)})
	require.NoError(t, err)

	latest, err := checks.LatestForMany(ctx, []int64{first.ID, second.ID})
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, newest.ID, latest[first.ID].ID)

	empty, err := checks.LatestForMany(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDeleteAllCascades(t *testing.T) {
	t.Parallel()
	addresses, checks := openStores(t)
	ctx := context.Background()

	address, err := addresses.Save(ctx, "https://example.com")
	require.NoError(t, err)
	_, err = checks.Save(ctx, pagewatch.Check{AddressID: address.ID, StatusCode: 200, CreatedAt: time.Now().UTC()})
	require.NoError(t, err)

	require.NoError(t, addresses.DeleteAll(ctx))

	history, err := checks.FindByAddress(ctx, address.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}
