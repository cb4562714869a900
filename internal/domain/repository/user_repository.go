package repository

import (
	"context"

	"github.com/tu-usuario/user-management-api/internal/domain/entity"
)

// UserPage es el resultado de un listado paginado.
type UserPage struct {
	Users   []*entity.User
	Total   int
	HasMore bool
}

// UserRepository define el puerto de persistencia para User (DIP).
// Unicidad de username/email se reporta con domain.ErrDuplicateKey;
// filas ausentes con domain.ErrNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	// FindByEmail devuelve la fila completa, hash incluido. Solo para auth.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, id int64, patch entity.UserPatch) (*entity.User, error)
	Delete(ctx context.Context, id int64) (*entity.User, error)
	// ListPage pagina con orden ascendente por id; page es 1-indexado.
	ListPage(ctx context.Context, page, pageSize int) (*UserPage, error)
	// ListAll devuelve todos los usuarios en orden ascendente por id (directorio PDF).
	ListAll(ctx context.Context) ([]*entity.User, error)
	// BulkDelete y BulkSetRole operan en una sola transacción.
	BulkDelete(ctx context.Context, ids []int64) (int64, error)
	BulkSetRole(ctx context.Context, ids []int64, role string) (int64, error)
}
