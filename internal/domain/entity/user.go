package entity

import (
	"errors"
	"time"
)

// Errores de validación a nivel de entidad.
var (
	ErrInvalidRole   = errors.New("rol inválido")
	ErrInvalidStatus = errors.New("estado inválido")
)

// Roles válidos para User. Los literales son los que viajan por la API.
const (
	RoleAdmin   = "Admin"
	RoleManager = "Manager"
	RoleUser    = "User"
)

// Estados válidos para User.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// ValidRole indica si el valor pertenece al enum de roles.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleManager || r == RoleUser
}

// ValidStatus indica si el valor pertenece al enum de estados.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusInactive
}

// User representa un usuario del sistema.
type User struct {
	ID           int64
	Name         string
	Username     string // único global
	Email        string // único global
	PasswordHash string // bcrypt hash, nunca sale del servicio de persistencia
	Avatar       string
	Role         string // Admin, Manager, User
	BirthDate    string // DD/MM/YYYY
	Phone        string
	Status       string // Active, Inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserPatch describe una actualización parcial: solo los campos no nil se aplican.
// El ID no tiene campo aquí a propósito: es inmutable una vez asignado.
type UserPatch struct {
	Name      *string
	Username  *string
	Email     *string
	Avatar    *string
	Role      *string
	BirthDate *string
	Phone     *string
	Status    *string
}

// IsEmpty indica si el patch no trae ningún campo.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Username == nil && p.Email == nil && p.Avatar == nil &&
		p.Role == nil && p.BirthDate == nil && p.Phone == nil && p.Status == nil
}

// Validate verifica que los valores de enum del patch sean legales.
func (p UserPatch) Validate() error {
	if p.Role != nil && !ValidRole(*p.Role) {
		return ErrInvalidRole
	}
	if p.Status != nil && !ValidStatus(*p.Status) {
		return ErrInvalidStatus
	}
	return nil
}
