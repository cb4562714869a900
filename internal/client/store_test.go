package client

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/user-management-api/internal/application/dto"
	"github.com/tu-usuario/user-management-api/internal/domain/entity"
)

// fakeFetcher simula el backend: 10 usuarios con pageSize 4.
type fakeFetcher struct {
	total    int
	pageSize int
	calls    int
}

func (f *fakeFetcher) GetUsers(_ context.Context, page int) (*dto.UserListResponse, error) {
	f.calls++
	offset := (page - 1) * f.pageSize
	var data []dto.UserResponse
	for i := offset; i < offset+f.pageSize && i < f.total; i++ {
		id := int64(i + 1)
		data = append(data, dto.UserResponse{
			ID: id, Name: fmt.Sprintf("User %d", id), Username: fmt.Sprintf("user%d", id),
			Email: fmt.Sprintf("user%d@example.com", id), Role: entity.RoleUser,
			BirthDate: "15/03/1990", Status: entity.StatusActive,
		})
	}
	return &dto.UserListResponse{
		Data: data, Total: f.total, Page: page, PageSize: f.pageSize,
		HasMore: offset+f.pageSize < f.total,
	}, nil
}

func newTestStore(t *testing.T) (*Store, *fakeFetcher, *Storage) {
	t.Helper()
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)
	fetcher := &fakeFetcher{total: 10, pageSize: 4}
	store, err := NewStore(fetcher, storage)
	require.NoError(t, err)
	return store, fetcher, storage
}

func localUser(id int64, name string) dto.UserResponse {
	return dto.UserResponse{
		ID: id, Name: name, Username: name, Email: name + "@local.test",
		Role: entity.RoleUser, BirthDate: "01/01/2000", Status: entity.StatusActive,
	}
}

func TestStoreFetchPaginado(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	// Página 1: 4 remotos y queda más.
	require.NoError(t, store.FetchPage(ctx, 1))
	assert.Len(t, store.View(), 4)
	assert.Equal(t, 1, store.Page())
	assert.True(t, store.HasMore())

	// Página 2 extiende: 8 remotos.
	require.NoError(t, store.FetchPage(ctx, 2))
	view := store.View()
	require.Len(t, view, 8)
	assert.Equal(t, int64(1), view[0].ID)
	assert.Equal(t, int64(8), view[7].ID)
	assert.True(t, store.HasMore())

	// Página 3 agota el backend.
	require.NoError(t, store.FetchPage(ctx, 3))
	assert.Len(t, store.View(), 10)
	assert.Equal(t, 3, store.Page())
	assert.False(t, store.HasMore())
}

func TestStoreLocalesPrimero(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.FetchPage(ctx, 1))
	require.NoError(t, store.AddLocal(localUser(1000, "ana")))
	require.NoError(t, store.AddLocal(localUser(1001, "beto")))

	// El más reciente va primero; los remotos detrás de todos los locales.
	view := store.View()
	require.Len(t, view, 6)
	assert.Equal(t, int64(1001), view[0].ID)
	assert.Equal(t, int64(1000), view[1].ID)
	assert.Equal(t, int64(1), view[2].ID)
	assert.Equal(t, []int64{1001, 1000}, []int64{store.Locals()[0].ID, store.Locals()[1].ID})
}

func TestStorePagina1ReemplazaRemotos(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.FetchPage(ctx, 1))
	require.NoError(t, store.FetchPage(ctx, 2))
	require.NoError(t, store.AddLocal(localUser(1000, "ana")))
	require.Len(t, store.View(), 9)

	// Volver a la página 1 descarta los remotos acumulados pero no los locales,
	// y la página re-entregada vuelve a entrar completa (los ids viejos no
	// deben seguir bloqueando la deduplicación).
	require.NoError(t, store.FetchPage(ctx, 1))
	view := store.View()
	require.Len(t, view, 5)
	assert.Equal(t, int64(1000), view[0].ID)
	for i, want := range []int64{1, 2, 3, 4} {
		assert.Equal(t, want, view[i+1].ID)
	}
	assert.Len(t, store.Locals(), 1)
	assert.Equal(t, 1, store.Page())
}

func TestStoreAddLocalRechazaIDDuplicado(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.FetchPage(ctx, 1))
	require.NoError(t, store.AddLocal(localUser(1000, "ana")))

	// Ni un id local repetido ni uno que ya llegó del servidor entran dos veces.
	assert.ErrorIs(t, store.AddLocal(localUser(1000, "clon")), ErrDuplicateID)
	assert.ErrorIs(t, store.AddLocal(localUser(2, "clon")), ErrDuplicateID)

	view := store.View()
	require.Len(t, view, 5)
	seen := map[int64]bool{}
	for _, u := range view {
		assert.False(t, seen[u.ID], "id %d duplicado en la vista", u.ID)
		seen[u.ID] = true
	}
	assert.Len(t, store.Locals(), 1)
}

func TestStoreNoDuplicaIDs(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	// Un local con el id 3 choca con el id 3 del servidor: gana el que ya está.
	require.NoError(t, store.AddLocal(localUser(3, "ana")))
	require.NoError(t, store.FetchPage(ctx, 1))

	view := store.View()
	require.Len(t, view, 4) // local 3 + remotos 1, 2, 4
	assert.Equal(t, "ana", view[0].Name)
	seen := map[int64]bool{}
	for _, u := range view {
		assert.False(t, seen[u.ID], "id %d duplicado en la vista", u.ID)
		seen[u.ID] = true
	}
}

// blockingFetcher deja la petición en vuelo hasta que el test la libere.
type blockingFetcher struct {
	entered chan struct{}
	release chan struct{}
}

func (f *blockingFetcher) GetUsers(context.Context, int) (*dto.UserListResponse, error) {
	close(f.entered)
	<-f.release
	return &dto.UserListResponse{HasMore: false}, nil
}

func TestStoreRechazaCargasConcurrentes(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)
	fetcher := &blockingFetcher{entered: make(chan struct{}), release: make(chan struct{})}
	store, err := NewStore(fetcher, storage)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- store.FetchPage(context.Background(), 1) }()

	// Con la primera petición en vuelo, la segunda no se encola: se rechaza.
	<-fetcher.entered
	assert.ErrorIs(t, store.FetchPage(context.Background(), 2), ErrFetchInFlight)

	close(fetcher.release)
	require.NoError(t, <-done)

	// Resuelta la primera, el almacén vuelve a aceptar cargas.
	assert.False(t, store.HasMore())
}

func TestStoreUpdate(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.FetchPage(ctx, 1))

	u := store.View()[1]
	u.Name = "Renombrado"
	require.NoError(t, store.Update(u))
	assert.Equal(t, "Renombrado", store.View()[1].Name)

	assert.ErrorIs(t, store.Update(localUser(9999, "fantasma")), ErrNotInStore)
}

func TestStoreBulkDeleteMixto(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.FetchPage(ctx, 1))
	require.NoError(t, store.AddLocal(localUser(1000, "ana")))

	// Borra un local y un remoto en una sola transición.
	require.NoError(t, store.BulkDelete([]int64{1000, 2}))
	view := store.View()
	require.Len(t, view, 3)
	for _, u := range view {
		assert.NotContains(t, []int64{1000, 2}, u.ID)
	}
	assert.Empty(t, store.Locals())
}

func TestStoreBulkSetRole(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.FetchPage(ctx, 1))

	require.NoError(t, store.BulkSetRole([]int64{1, 3}, entity.RoleAdmin))
	view := store.View()
	assert.Equal(t, entity.RoleAdmin, view[0].Role)
	assert.Equal(t, entity.RoleUser, view[1].Role)
	assert.Equal(t, entity.RoleAdmin, view[2].Role)
	assert.Equal(t, entity.RoleUser, view[3].Role)
}

func TestStorePersistenciaDeLocales(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewStorage(dir)
	require.NoError(t, err)
	fetcher := &fakeFetcher{total: 10, pageSize: 4}

	store, err := NewStore(fetcher, storage)
	require.NoError(t, err)
	require.NoError(t, store.AddLocal(localUser(1000, "ana")))
	require.NoError(t, store.AddLocal(localUser(1001, "beto")))

	// Un almacén nuevo sobre el mismo directorio recupera los locales,
	// en el mismo orden.
	reopened, err := NewStore(fetcher, storage)
	require.NoError(t, err)
	locals := reopened.Locals()
	require.Len(t, locals, 2)
	assert.Equal(t, int64(1001), locals[0].ID)
	assert.Equal(t, int64(1000), locals[1].ID)
}

func TestStoreReset(t *testing.T) {
	store, _, storage := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.FetchPage(ctx, 1))
	require.NoError(t, store.AddLocal(localUser(1000, "ana")))

	require.NoError(t, store.Reset())
	assert.Empty(t, store.View())
	assert.Equal(t, 0, store.Page())
	assert.True(t, store.HasMore())

	// La persistencia también quedó vacía.
	persisted, err := storage.LoadLocalUsers()
	require.NoError(t, err)
	assert.Empty(t, persisted)
}
