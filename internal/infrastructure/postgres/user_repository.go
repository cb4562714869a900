package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/user-management-api/internal/domain"
	"github.com/tu-usuario/user-management-api/internal/domain/entity"
	"github.com/tu-usuario/user-management-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, name, username, email, password_hash, avatar, role, birth_date, phone, status, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	db DB
	tx *TxRunner
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(db DB) *UserRepo {
	return &UserRepo{db: db, tx: NewTxRunner(db)}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Username, &u.Email, &u.PasswordHash, &u.Avatar,
		&u.Role, &u.BirthDate, &u.Phone, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create persiste un nuevo usuario y devuelve la fila con el id asignado.
// Username/email duplicados se reportan como domain.ErrDuplicateKey.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (name, username, email, password_hash, avatar, role, birth_date, phone, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + userColumns
	created, err := scanUser(r.db.QueryRow(ctx, query,
		user.Name, user.Username, user.Email, user.PasswordHash, user.Avatar,
		user.Role, user.BirthDate, user.Phone, user.Status,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateKey
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

// GetByID obtiene un usuario por ID; domain.ErrNotFound si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// FindByEmail obtiene un usuario por email, hash incluido (ruta de auth).
// Match exacto y sensible a mayúsculas.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`
	u, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// Update aplica un patch parcial: solo los campos presentes entran al SET.
// Un patch vacío devuelve la fila actual sin tocarla.
func (r *UserRepo) Update(ctx context.Context, id int64, patch entity.UserPatch) (*entity.User, error) {
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	sets := make([]string, 0, 8)
	args := make([]any, 0, 9)
	add := func(column string, v *string) {
		if v != nil {
			args = append(args, *v)
			sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
		}
	}
	add("name", patch.Name)
	add("username", patch.Username)
	add("email", patch.Email)
	add("avatar", patch.Avatar)
	add("role", patch.Role)
	add("birth_date", patch.BirthDate)
	add("phone", patch.Phone)
	add("status", patch.Status)

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE users SET %s, updated_at = now() WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), userColumns,
	)

	u, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateKey
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// Delete elimina un usuario por ID y devuelve la fila borrada.
func (r *UserRepo) Delete(ctx context.Context, id int64) (*entity.User, error) {
	query := `DELETE FROM users WHERE id = $1 RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("delete user: %w", err)
	}
	return u, nil
}

// ListPage pagina en orden ascendente por id. LIMIT/OFFSET es O(offset),
// aceptable para el tamaño de datos de esta aplicación.
func (r *UserRepo) ListPage(ctx context.Context, page, pageSize int) (*repository.UserPage, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY id ASC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users, err := collectUsers(rows)
	if err != nil {
		return nil, err
	}
	return &repository.UserPage{
		Users:   users,
		Total:   total,
		HasMore: offset+pageSize < total,
	}, nil
}

// ListAll devuelve el directorio completo en orden ascendente por id.
func (r *UserRepo) ListAll(ctx context.Context) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all users: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]*entity.User, error) {
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// BulkDelete borra todos los ids indicados en una sola transacción y
// devuelve cuántas filas se eliminaron.
func (r *UserRepo) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var deleted int64
	err := r.tx.Run(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = ANY($1)`, ids)
		if err != nil {
			return fmt.Errorf("bulk delete users: %w", err)
		}
		deleted = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// BulkSetRole asigna el rol a todos los ids indicados en una sola transacción.
func (r *UserRepo) BulkSetRole(ctx context.Context, ids []int64, role string) (int64, error) {
	if !entity.ValidRole(role) {
		return 0, fmt.Errorf("%w: %s", domain.ErrInvalidInput, entity.ErrInvalidRole)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	var updated int64
	err := r.tx.Run(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE users SET role = $1, updated_at = now() WHERE id = ANY($2)`, role, ids)
		if err != nil {
			return fmt.Errorf("bulk set role: %w", err)
		}
		updated = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}
