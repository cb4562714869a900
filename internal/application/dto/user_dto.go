package dto

import "time"

// CreateUserRequest entrada para crear un usuario desde la administración
// (sin password: el alta administrativa crea la cuenta sin credenciales de
// acceso).
type CreateUserRequest struct {
	Name      string `json:"name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
	Role      string `json:"role"`
	BirthDate string `json:"birthDate"`
	Phone     string `json:"phone"`
}

// UpdateUserRequest actualización parcial: solo los campos presentes se aplican.
type UpdateUserRequest struct {
	Name      *string `json:"name"`
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	Avatar    *string `json:"avatar"`
	Role      *string `json:"role"`
	BirthDate *string `json:"birthDate"`
	Phone     *string `json:"phone"`
	Status    *string `json:"status"`
}

// UserResponse salida de un usuario (sin password hash).
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	Role      string    `json:"role"`
	BirthDate string    `json:"birthDate"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserListResponse página del listado de usuarios.
type UserListResponse struct {
	Data     []UserResponse `json:"data"`
	HasMore  bool           `json:"hasMore"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

// DeleteUserResponse confirmación de borrado con la fila eliminada.
type DeleteUserResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// BulkDeleteRequest ids a borrar en una sola transacción.
type BulkDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

// BulkDeleteResponse cuántas filas se borraron.
type BulkDeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

// BulkRoleRequest ids y rol a asignar en una sola transacción.
type BulkRoleRequest struct {
	IDs  []int64 `json:"ids"`
	Role string  `json:"role"`
}

// BulkRoleResponse cuántas filas cambiaron de rol.
type BulkRoleResponse struct {
	Updated int64 `json:"updated"`
}
