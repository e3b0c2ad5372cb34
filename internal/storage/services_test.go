package storage

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/servium/internal/config"
	"evalgo.org/servium/models"
)

var testDBSeq atomic.Int64

// testStorage opens a fresh named in-memory SQLite database per test.
func testStorage(t *testing.T) *Storage {
	t.Helper()

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:          "sqlite",
			DSN:             fmt.Sprintf("file:servium_test_%d?mode=memory&cache=shared", testDBSeq.Add(1)),
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: time.Minute,
		},
	}

	store, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func defaultListOptions() models.ListOptions {
	return models.ListOptions{
		Page:        models.DefaultPage,
		Size:        models.DefaultPageSize,
		SortField:   models.DefaultSortField,
		Order:       models.SortAsc,
		SearchField: models.DefaultSortField,
	}
}

func seedServices(t *testing.T, store *Storage, names ...string) []*models.Service {
	t.Helper()
	services := make([]*models.Service, 0, len(names))
	for _, name := range names {
		svc, err := store.CreateService(name, "description of "+name)
		require.NoError(t, err)
		services = append(services, svc)
	}
	return services
}

func TestCreateService(t *testing.T) {
	store := testStorage(t)

	svc, err := store.CreateService("Locate Us", "find the nearest branch")
	require.NoError(t, err)
	assert.NotEmpty(t, svc.UUID)
	assert.Equal(t, "Locate Us", svc.Name)
	assert.Equal(t, "find the nearest branch", svc.Description)
	assert.Equal(t, 0, svc.VersionCount)

	fetched, err := store.GetService(svc.UUID, false)
	require.NoError(t, err)
	assert.Equal(t, svc.UUID, fetched.UUID)
	assert.Equal(t, "Locate Us", fetched.Name)
}

func TestGetService_NotFound(t *testing.T) {
	store := testStorage(t)

	_, err := store.GetService("no-such-uuid", false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetService_VersionsSortedByReleaseDateDesc(t *testing.T) {
	store := testStorage(t)
	svc := seedServices(t, store, "Notifications")[0]

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	oldest := base.Add(-48 * time.Hour)
	newest := base.Add(48 * time.Hour)

	for _, v := range []struct {
		number string
		date   time.Time
	}{
		{"1.0.0", oldest},
		{"1.2.0", newest},
		{"1.1.0", base},
	} {
		d := v.date
		_, err := store.AddVersion(svc.UUID, v.number, &d)
		require.NoError(t, err)
	}

	fetched, err := store.GetService(svc.UUID, true)
	require.NoError(t, err)
	require.Len(t, fetched.Versions, 3)
	assert.Equal(t, "1.2.0", fetched.Versions[0].Number)
	assert.Equal(t, "1.1.0", fetched.Versions[1].Number)
	assert.Equal(t, "1.0.0", fetched.Versions[2].Number)
	assert.Equal(t, 3, fetched.VersionCount)

	// Without versions requested the collection stays empty but the count
	// is still derived.
	fetched, err = store.GetService(svc.UUID, false)
	require.NoError(t, err)
	assert.Empty(t, fetched.Versions)
	assert.Equal(t, 3, fetched.VersionCount)
}

func TestListServices_PaginationMeta(t *testing.T) {
	store := testStorage(t)
	seedServices(t, store, "a", "b", "c", "d", "e", "f", "g")

	opts := defaultListOptions()
	opts.Size = 3

	page, err := store.ListServices(opts)
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, 7, page.Meta.ItemCount)
	assert.Equal(t, 3, page.Meta.PageCount)
	assert.False(t, page.Meta.HasPreviousPage)
	assert.True(t, page.Meta.HasNextPage)

	opts.Page = 3
	page, err = store.ListServices(opts)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.True(t, page.Meta.HasPreviousPage)
	assert.False(t, page.Meta.HasNextPage)

	// A page past the end is an empty page, not an error.
	opts.Page = 5
	page, err = store.ListServices(opts)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 7, page.Meta.ItemCount)
}

func TestListServices_EmptyStore(t *testing.T) {
	store := testStorage(t)

	page, err := store.ListServices(defaultListOptions())
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Meta.ItemCount)
	assert.Equal(t, 0, page.Meta.PageCount)
	assert.False(t, page.Meta.HasNextPage)
}

func TestListServices_SortOrder(t *testing.T) {
	store := testStorage(t)
	seedServices(t, store, "charlie", "alpha", "bravo")

	opts := defaultListOptions()
	page, err := store.ListServices(opts)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "alpha", page.Items[0].Name)
	assert.Equal(t, "bravo", page.Items[1].Name)
	assert.Equal(t, "charlie", page.Items[2].Name)

	opts.Order = models.SortDesc
	page, err = store.ListServices(opts)
	require.NoError(t, err)
	assert.Equal(t, "charlie", page.Items[0].Name)
	assert.Equal(t, "alpha", page.Items[2].Name)
}

func TestListServices_SearchContains(t *testing.T) {
	store := testStorage(t)
	seedServices(t, store, "Payments API", "payment-gateway", "Notifications")

	opts := defaultListOptions()
	opts.Search = "payment"

	page, err := store.ListServices(opts)
	require.NoError(t, err)
	// Contains match is case-insensitive.
	assert.Equal(t, 2, page.Meta.ItemCount)
	require.Len(t, page.Items, 2)
	for _, item := range page.Items {
		assert.Contains(t, []string{"Payments API", "payment-gateway"}, item.Name)
	}

	opts.Search = "no-such-service"
	page, err = store.ListServices(opts)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Meta.ItemCount)
}

func TestListServices_SearchOnDescription(t *testing.T) {
	store := testStorage(t)
	store.CreateService("svc-1", "handles card payments")
	store.CreateService("svc-2", "sends emails")

	opts := defaultListOptions()
	opts.Search = "card"
	opts.SearchField = "description"

	page, err := store.ListServices(opts)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "svc-1", page.Items[0].Name)
}

func TestListServices_VersionCountsAggregated(t *testing.T) {
	store := testStorage(t)
	services := seedServices(t, store, "alpha", "bravo")

	_, err := store.AddVersion(services[0].UUID, "1.0.0", nil)
	require.NoError(t, err)
	_, err = store.AddVersion(services[0].UUID, "1.1.0", nil)
	require.NoError(t, err)

	page, err := store.ListServices(defaultListOptions())
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Items[0].VersionCount) // alpha
	assert.Equal(t, 0, page.Items[1].VersionCount) // bravo
	// List views never carry the version collections themselves.
	assert.Empty(t, page.Items[0].Versions)
}

func TestListServices_UnknownFieldRejected(t *testing.T) {
	store := testStorage(t)
	seedServices(t, store, "alpha")

	opts := defaultListOptions()
	opts.SortField = "name; DROP TABLE services"
	_, err := store.ListServices(opts)
	assert.ErrorIs(t, err, ErrUnknownField)

	opts = defaultListOptions()
	opts.Search = "a"
	opts.SearchField = "versions"
	_, err = store.ListServices(opts)
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestPatchService(t *testing.T) {
	store := testStorage(t)
	svc := seedServices(t, store, "old-name")[0]

	newName := "new-name"
	patched, err := store.PatchService(svc.UUID, &newName, nil)
	require.NoError(t, err)
	assert.Equal(t, "new-name", patched.Name)
	// Description untouched by a partial patch.
	assert.Equal(t, "description of old-name", patched.Description)

	fetched, err := store.GetService(svc.UUID, false)
	require.NoError(t, err)
	assert.Equal(t, "new-name", fetched.Name)
	assert.Equal(t, "description of old-name", fetched.Description)
}

func TestPatchService_NotFound(t *testing.T) {
	store := testStorage(t)

	name := "anything"
	_, err := store.PatchService("no-such-uuid", &name, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteService_CascadesAndIdempotent(t *testing.T) {
	store := testStorage(t)
	svc := seedServices(t, store, "doomed")[0]

	_, err := store.AddVersion(svc.UUID, "1.0.0", nil)
	require.NoError(t, err)
	_, err = store.AddVersion(svc.UUID, "2.0.0", nil)
	require.NoError(t, err)

	require.NoError(t, store.DeleteService(svc.UUID))

	_, err = store.GetService(svc.UUID, false)
	assert.ErrorIs(t, err, ErrNotFound)

	// No orphan version rows remain.
	var count int64
	require.NoError(t, store.db.Model(&models.Version{}).Where("service_uuid = ?", svc.UUID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// Repeating the delete still succeeds.
	require.NoError(t, store.DeleteService(svc.UUID))
}
