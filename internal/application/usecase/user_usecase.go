package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/user-management-api/internal/application/dto"
	"github.com/tu-usuario/user-management-api/internal/domain"
	"github.com/tu-usuario/user-management-api/internal/domain/entity"
	"github.com/tu-usuario/user-management-api/internal/domain/repository"
)

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo     repository.UserRepository
	pageSize int
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia y el
// tamaño de página de la política de listado.
func NewUserUseCase(repo repository.UserRepository, pageSize int) *UserUseCase {
	return &UserUseCase{repo: repo, pageSize: pageSize}
}

// PageSize expone el tamaño de página vigente (para las respuestas de listado).
func (uc *UserUseCase) PageSize() int { return uc.pageSize }

// List devuelve la página pedida del listado, ordenada por id ascendente.
func (uc *UserUseCase) List(ctx context.Context, page int) (*dto.UserListResponse, error) {
	if page < 1 {
		page = 1
	}
	result, err := uc.repo.ListPage(ctx, page, uc.pageSize)
	if err != nil {
		return nil, err
	}
	data := make([]dto.UserResponse, 0, len(result.Users))
	for _, u := range result.Users {
		data = append(data, *EntityToUserResponse(u))
	}
	return &dto.UserListResponse{
		Data:     data,
		HasMore:  result.HasMore,
		Total:    result.Total,
		Page:     page,
		PageSize: uc.pageSize,
	}, nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return EntityToUserResponse(user), nil
}

// Create da de alta un usuario administrativo. Role, status y avatar reciben
// los valores por defecto del sistema si no vienen en la petición.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	if !entity.ValidRole(role) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, entity.ErrInvalidRole)
	}
	avatar := in.Avatar
	if avatar == "" {
		avatar = DefaultAvatar()
	}
	user := &entity.User{
		Name:      in.Name,
		Username:  in.Username,
		Email:     in.Email,
		Avatar:    avatar,
		Role:      role,
		BirthDate: in.BirthDate,
		Phone:     in.Phone,
		Status:    entity.StatusActive,
	}
	created, err := uc.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return EntityToUserResponse(created), nil
}

// Update aplica una actualización parcial sobre el usuario.
func (uc *UserUseCase) Update(ctx context.Context, id int64, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	patch := entity.UserPatch{
		Name:      in.Name,
		Username:  in.Username,
		Email:     in.Email,
		Avatar:    in.Avatar,
		Role:      in.Role,
		BirthDate: in.BirthDate,
		Phone:     in.Phone,
		Status:    in.Status,
	}
	updated, err := uc.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return EntityToUserResponse(updated), nil
}

// Delete elimina el usuario y devuelve la fila borrada.
func (uc *UserUseCase) Delete(ctx context.Context, id int64) (*dto.UserResponse, error) {
	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	return EntityToUserResponse(deleted), nil
}

// BulkDelete borra los ids indicados en una sola transacción.
func (uc *UserUseCase) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	return uc.repo.BulkDelete(ctx, ids)
}

// BulkSetRole asigna el rol a los ids indicados en una sola transacción.
func (uc *UserUseCase) BulkSetRole(ctx context.Context, ids []int64, role string) (int64, error) {
	return uc.repo.BulkSetRole(ctx, ids, role)
}

// ListAll devuelve el directorio completo (para la exportación PDF).
func (uc *UserUseCase) ListAll(ctx context.Context) ([]*entity.User, error) {
	return uc.repo.ListAll(ctx)
}

// DefaultAvatar genera la URL de avatar por defecto.
func DefaultAvatar() string {
	return fmt.Sprintf("https://i.pravatar.cc/150?u=%d", time.Now().UnixMilli())
}

// EntityToUserResponse convierte la entidad al DTO de salida (sin hash).
func EntityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Email:     u.Email,
		Avatar:    u.Avatar,
		Role:      u.Role,
		BirthDate: u.BirthDate,
		Phone:     u.Phone,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
