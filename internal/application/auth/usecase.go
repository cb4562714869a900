package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/user-management-api/internal/application/dto"
	"github.com/tu-usuario/user-management-api/internal/application/usecase"
	"github.com/tu-usuario/user-management-api/internal/domain"
	"github.com/tu-usuario/user-management-api/internal/domain/entity"
	"github.com/tu-usuario/user-management-api/internal/domain/repository"
	"github.com/tu-usuario/user-management-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login y sesión actual.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Register crea la cuenta: hashea el password con bcrypt, persiste con rol User
// y estado Active, y devuelve token + usuario. Duplicados salen como
// domain.ErrDuplicateKey.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		Name:         in.Name,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Avatar:       usecase.DefaultAvatar(),
		Role:         entity.RoleUser,
		BirthDate:    in.BirthDate,
		Phone:        in.Phone,
		Status:       entity.StatusActive,
	}
	created, err := uc.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return uc.tokenFor(created)
}

// Login verifica email/password y devuelve token + usuario sin hash.
// Email desconocido y password incorrecto responden igual: ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := uc.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	return uc.tokenFor(user)
}

// Me devuelve el usuario del token (sin hash).
func (uc *AuthUseCase) Me(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return usecase.EntityToUserResponse(user), nil
}

func (uc *AuthUseCase) tokenFor(user *entity.User) (*dto.AuthResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{
		UserID:   user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Username: user.Username,
		Role:     user.Role,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token: token,
		User:  *usecase.EntityToUserResponse(user),
	}, nil
}
