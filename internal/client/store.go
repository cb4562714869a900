package client

import (
	"context"
	"errors"
	"sync"

	"github.com/tu-usuario/user-management-api/internal/application/dto"
)

// Origin marca la procedencia de un registro del almacén.
type Origin string

const (
	OriginLocal  Origin = "local"  // creado/importado en este cliente
	OriginRemote Origin = "remote" // traído del backend
)

// ErrFetchInFlight se devuelve si se pide una página con otra petición en curso.
// El llamador debe esperar a que la anterior resuelva antes de pedir la siguiente.
var ErrFetchInFlight = errors.New("ya hay una carga de página en curso")

// ErrNotInStore se devuelve al actualizar un id que el almacén no contiene.
var ErrNotInStore = errors.New("el usuario no está en el almacén")

// ErrDuplicateID se devuelve al añadir un id que el almacén ya contiene.
var ErrDuplicateID = errors.New("el id ya existe en el almacén")

// PageFetcher es lo único que el almacén necesita de la API.
type PageFetcher interface {
	GetUsers(ctx context.Context, page int) (*dto.UserListResponse, error)
}

// entry es un registro con su procedencia.
type entry struct {
	user   dto.UserResponse
	origin Origin
}

// Store mantiene la vista reconciliada de usuarios locales y remotos.
//
// En lugar de colecciones separadas sincronizadas a mano, guarda un único
// contenedor ordenado con procedencia por entrada más un índice por id: los
// locales van siempre delante de los remotos y la vista se deriva, nunca se
// almacena.
type Store struct {
	mu       sync.Mutex
	entries  []entry // [0:nLocal) locales (más reciente primero), [nLocal:) remotos
	index    map[int64]int
	nLocal   int
	page     int // última página cargada con éxito; 0 antes de la primera
	hasMore  bool
	fetching bool

	api     PageFetcher
	storage *Storage
}

// NewStore construye el almacén y carga los usuarios locales persistidos.
func NewStore(api PageFetcher, storage *Storage) (*Store, error) {
	s := &Store{
		api:     api,
		storage: storage,
		index:   map[int64]int{},
		hasMore: true,
	}
	locals, err := storage.LoadLocalUsers()
	if err != nil {
		return nil, err
	}
	for _, u := range locals {
		s.entries = append(s.entries, entry{user: u, origin: OriginLocal})
	}
	s.nLocal = len(s.entries)
	s.rebuildIndex()
	return s, nil
}

// rebuildIndex reconstruye el índice id→posición. Debe llamarse con el lock tomado.
func (s *Store) rebuildIndex() {
	s.index = make(map[int64]int, len(s.entries))
	for i, e := range s.entries {
		s.index[e.user.ID] = i
	}
}

// FetchPage carga la página n: la página 1 reemplaza los remotos, n>1 los
// extiende. Una sola petición en vuelo a la vez; la segunda concurrente
// recibe ErrFetchInFlight en lugar de intercalar appends.
func (s *Store) FetchPage(ctx context.Context, n int) error {
	s.mu.Lock()
	if s.fetching {
		s.mu.Unlock()
		return ErrFetchInFlight
	}
	s.fetching = true
	s.mu.Unlock()

	resp, err := s.api.GetUsers(ctx, n)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetching = false
	if err != nil {
		return err
	}

	if n == 1 {
		// Reconstruir el índice tras descartar los remotos: si los ids
		// viejos quedaran en él, la deduplicación de abajo descartaría
		// la página re-entregada entera.
		s.entries = s.entries[:s.nLocal]
		s.rebuildIndex()
	}
	for _, u := range resp.Data {
		if _, ok := s.index[u.ID]; ok {
			continue // ya presente (local o re-entrega del servidor): no duplicar
		}
		s.entries = append(s.entries, entry{user: u, origin: OriginRemote})
		s.index[u.ID] = len(s.entries) - 1
	}
	s.rebuildIndex()
	s.page = n
	s.hasMore = resp.HasMore
	return nil
}

// AddLocal antepone un usuario de origen local y lo persiste.
// Un id ya presente (local o remoto) se rechaza: ningún id aparece dos veces
// en la vista.
func (s *Store) AddLocal(u dto.UserResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[u.ID]; ok {
		return ErrDuplicateID
	}
	s.entries = append([]entry{{user: u, origin: OriginLocal}}, s.entries...)
	s.nLocal++
	s.rebuildIndex()
	return s.persistLocals()
}

// Update reemplaza el registro con el mismo id, esté donde esté.
func (s *Store) Update(u dto.UserResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[u.ID]
	if !ok {
		return ErrNotInStore
	}
	s.entries[i].user = u
	if s.entries[i].origin == OriginLocal {
		return s.persistLocals()
	}
	return nil
}

// BulkDelete elimina todos los ids indicados en una sola transición de estado.
func (s *Store) BulkDelete(ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	drop := make(map[int64]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := s.entries[:0]
	nLocal := 0
	for _, e := range s.entries {
		if drop[e.user.ID] {
			continue
		}
		if e.origin == OriginLocal {
			nLocal++
		}
		kept = append(kept, e)
	}
	s.entries = kept
	s.nLocal = nLocal
	s.rebuildIndex()
	return s.persistLocals()
}

// BulkSetRole asigna el rol a todos los ids indicados.
func (s *Store) BulkSetRole(ids []int64, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	apply := make(map[int64]bool, len(ids))
	for _, id := range ids {
		apply[id] = true
	}
	touchedLocal := false
	for i := range s.entries {
		if apply[s.entries[i].user.ID] {
			s.entries[i].user.Role = role
			if s.entries[i].origin == OriginLocal {
				touchedLocal = true
			}
		}
	}
	if touchedLocal {
		return s.persistLocals()
	}
	return nil
}

// Reset vacía el almacén y su persistencia (logout). No toca el token ni
// otros archivos del directorio de estado.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.index = map[int64]int{}
	s.nLocal = 0
	s.page = 0
	s.hasMore = true
	return s.storage.ClearLocalUsers()
}

// View devuelve la vista reconciliada: locales primero, remotos después.
func (s *Store) View() []dto.UserResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dto.UserResponse, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.user
	}
	return out
}

// Locals devuelve solo los usuarios de origen local (más reciente primero).
func (s *Store) Locals() []dto.UserResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.localsLocked()
}

// Page devuelve la última página cargada (0 antes de la primera carga).
func (s *Store) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// HasMore indica si quedan páginas por cargar.
func (s *Store) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

func (s *Store) localsLocked() []dto.UserResponse {
	locals := make([]dto.UserResponse, 0, s.nLocal)
	for _, e := range s.entries {
		if e.origin == OriginLocal {
			locals = append(locals, e.user)
		}
	}
	return locals
}

func (s *Store) persistLocals() error {
	return s.storage.SaveLocalUsers(s.localsLocked())
}
