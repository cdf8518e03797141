package sites_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagewatch/internal/normalize"
	"pagewatch/internal/pagewatch"
	"pagewatch/internal/sites"
	"pagewatch/internal/storage/memory"
)

func newService() (*sites.Service, *memory.AddressStore, *memory.CheckStore) {
	addresses := memory.NewAddressStore(nil)
	checks := memory.NewCheckStore()
	return sites.NewService(addresses, checks, nil), addresses, checks
}

func TestRegisterNormalizesInput(t *testing.T) {
	t.Parallel()
	service, _, _ := newService()

	address, err := service.Register(context.Background(), "HTTPS://WWW.Example.com:443/path")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", address.Name)
	assert.NotZero(t, address.ID)
}

func TestRegisterDuplicateKeepsSingleAddress(t *testing.T) {
	t.Parallel()
	service, addresses, _ := newService()

	_, err := service.Register(context.Background(), "https://example.com")
	require.NoError(t, err)

	// Same canonical key through a different spelling.
	_, err = service.Register(context.Background(), "HTTPS://www.example.com/other/path")
	assert.ErrorIs(t, err, pagewatch.ErrDuplicate)

	all, err := addresses.All(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRegisterRejectionsPassThrough(t *testing.T) {
	t.Parallel()
	service, _, _ := newService()

	cases := []struct {
		raw     string
		wantErr error
	}{
		{"", normalize.ErrEmpty},
		{"   ", normalize.ErrEmpty},
		{"example.com", normalize.ErrNotAbsolute},
		{"ftp://example.com", normalize.ErrUnsupportedScheme},
	}
	for _, tc := range cases {
		_, err := service.Register(context.Background(), tc.raw)
		assert.ErrorIs(t, err, tc.wantErr, "input %q", tc.raw)
	}
}

func TestListJoinsLatestChecks(t *testing.T) {
	t.Parallel()
	service, _, checks := newService()

	first, err := service.Register(context.Background(), "https://one.test")
	require.NoError(t, err)
	second, err := service.Register(context.Background(), "https://two.test")
	require.NoError(t, err)

	older, err := checks.Save(context.Background(), pagewatch.Check{AddressID: first.ID, StatusCode: 500})
	require.NoError(t, err)
	newer, err := checks.Save(context.Background(), pagewatch.Check{
		AddressID:  first.ID,
		StatusCode: 200,
		Title:      sql.NullString{String: "One", Valid: true},
		CreatedAt:  older.CreatedAt.Add(1),
	})
	require.NoError(t, err)

	listings, err := service.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, first.ID, listings[0].Address.ID)
	require.NotNil(t, listings[0].Latest)
	assert.Equal(t, newer.ID, listings[0].Latest.ID)

	assert.Equal(t, second.ID, listings[1].Address.ID)
	assert.Nil(t, listings[1].Latest)
}

func TestListFiltersBySubstring(t *testing.T) {
	t.Parallel()
	service, _, _ := newService()

	_, err := service.Register(context.Background(), "https://alpha.test")
	require.NoError(t, err)
	_, err = service.Register(context.Background(), "https://beta.test")
	require.NoError(t, err)

	listings, err := service.List(context.Background(), "ALPHA")
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "https://alpha.test", listings[0].Address.Name)
}

func TestShowReturnsHistory(t *testing.T) {
	t.Parallel()
	service, _, checks := newService()

	address, err := service.Register(context.Background(), "https://example.com")
	require.NoError(t, err)
	_, err = checks.Save(context.Background(), pagewatch.Check{AddressID: address.ID, StatusCode: 200})
	require.NoError(t, err)

	got, history, err := service.Show(context.Background(), address.ID)
	require.NoError(t, err)
	assert.Equal(t, address.ID, got.ID)
	assert.Len(t, history, 1)
}

func TestShowUnknownAddress(t *testing.T) {
	t.Parallel()
	service, _, _ := newService()

	_, _, err := service.Show(context.Background(), 42)
	assert.ErrorIs(t, err, pagewatch.ErrNotFound)
}

func TestResetClearsEverything(t *testing.T) {
	t.Parallel()
	service, addresses, checks := newService()

	address, err := service.Register(context.Background(), "https://example.com")
	require.NoError(t, err)
	_, err = checks.Save(context.Background(), pagewatch.Check{AddressID: address.ID, StatusCode: 200})
	require.NoError(t, err)

	require.NoError(t, service.Reset(context.Background()))

	all, err := addresses.All(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, all)
	history, err := checks.FindByAddress(context.Background(), address.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}
