package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tu-usuario/user-management-api/internal/application/dto"
)

// Nombres de archivo dentro del directorio de estado del cliente.
const (
	localUsersFile = "added_local_users.json"
	tokenFile      = "auth_token"
)

// Storage persiste el estado durable del cliente en un directorio local:
// los usuarios creados localmente y el token de sesión.
type Storage struct {
	dir string
}

// NewStorage crea el directorio de estado si no existe.
func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de estado: %w", err)
	}
	return &Storage{dir: dir}, nil
}

// LoadLocalUsers carga los usuarios locales persistidos; sin archivo devuelve vacío.
func (s *Storage) LoadLocalUsers() ([]dto.UserResponse, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, localUsersFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer usuarios locales: %w", err)
	}
	var users []dto.UserResponse
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("decodificar usuarios locales: %w", err)
	}
	return users, nil
}

// SaveLocalUsers persiste los usuarios locales (reemplaza el archivo completo).
func (s *Storage) SaveLocalUsers(users []dto.UserResponse) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("serializar usuarios locales: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, localUsersFile), data, 0o644); err != nil {
		return fmt.Errorf("guardar usuarios locales: %w", err)
	}
	return nil
}

// ClearLocalUsers borra solo el archivo de usuarios locales; el resto del
// directorio (token, preferencias de otros comandos) queda intacto.
func (s *Storage) ClearLocalUsers() error {
	err := os.Remove(filepath.Join(s.dir, localUsersFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("borrar usuarios locales: %w", err)
	}
	return nil
}

// SaveToken persiste el token de sesión.
func (s *Storage) SaveToken(token string) error {
	if err := os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(token), 0o600); err != nil {
		return fmt.Errorf("guardar token: %w", err)
	}
	return nil
}

// LoadToken devuelve el token persistido o cadena vacía si no hay sesión.
func (s *Storage) LoadToken() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("leer token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// ClearToken elimina el token de sesión (logout o 401/403 de la API).
func (s *Storage) ClearToken() error {
	err := os.Remove(filepath.Join(s.dir, tokenFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("borrar token: %w", err)
	}
	return nil
}
