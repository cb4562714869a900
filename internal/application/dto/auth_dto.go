package dto

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest entrada para registro (password en texto, se hashea en el use case).
type RegisterRequest struct {
	Name      string `json:"name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	BirthDate string `json:"birthDate"`
	Phone     string `json:"phone"`
}

// AuthResponse salida de login/register: token JWT + usuario sin password.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
