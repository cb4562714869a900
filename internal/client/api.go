// Package client implementa el lado consumidor de la API: un cliente HTTP
// tipado, el almacén reconciliado de usuarios locales y remotos, la
// importación/exportación CSV y el cálculo de métricas del dashboard.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tu-usuario/user-management-api/internal/application/dto"
)

// APIError es un error HTTP de la API con su status y cuerpo decodificado.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s: %s", e.Status, e.Code, e.Message)
}

// IsAuthError indica si el fallo es 401/403 (el llamador debe limpiar la sesión).
func (e *APIError) IsAuthError() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// API es el cliente HTTP tipado contra la User Management API.
type API struct {
	baseURL string
	token   string
	hc      *http.Client
}

// NewAPI construye el cliente con timeout fijo; baseURL sin slash final.
func NewAPI(baseURL string) *API {
	return &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken fija el Bearer token para las rutas protegidas.
func (a *API) SetToken(token string) { a.token = token }

func (a *API) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("serializar cuerpo: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("crear petición: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.hc.Do(req)
	if err != nil {
		return fmt.Errorf("ejecutar petición: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("leer respuesta: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Code: "UNKNOWN"}
		var body dto.ErrorResponse
		if json.Unmarshal(data, &body) == nil && body.Code != "" {
			apiErr.Code = body.Code
			apiErr.Message = body.Message
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decodificar respuesta: %w", err)
		}
	}
	return nil
}

// Login autentica y devuelve token + usuario. El token queda fijado en el cliente.
func (a *API) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	err := a.do(ctx, http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	a.token = out.Token
	return &out, nil
}

// Register crea la cuenta y deja la sesión iniciada.
func (a *API) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := a.do(ctx, http.MethodPost, "/api/auth/register", in, &out); err != nil {
		return nil, err
	}
	a.token = out.Token
	return &out, nil
}

// Me devuelve el usuario de la sesión actual.
func (a *API) Me(ctx context.Context) (*dto.UserResponse, error) {
	var out dto.UserResponse
	if err := a.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUsers pide la página n del listado.
func (a *API) GetUsers(ctx context.Context, page int) (*dto.UserListResponse, error) {
	var out dto.UserListResponse
	path := fmt.Sprintf("/api/users?page=%d", page)
	if err := a.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateUser da de alta un usuario.
func (a *API) CreateUser(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	var out dto.UserResponse
	if err := a.do(ctx, http.MethodPost, "/api/users", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser aplica una actualización parcial.
func (a *API) UpdateUser(ctx context.Context, id int64, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	var out dto.UserResponse
	path := fmt.Sprintf("/api/users/%d", id)
	if err := a.do(ctx, http.MethodPut, path, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser borra un usuario y devuelve la fila eliminada.
func (a *API) DeleteUser(ctx context.Context, id int64) (*dto.DeleteUserResponse, error) {
	var out dto.DeleteUserResponse
	path := fmt.Sprintf("/api/users/%d", id)
	if err := a.do(ctx, http.MethodDelete, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BulkDelete borra varios ids en una sola transacción del backend.
func (a *API) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	var out dto.BulkDeleteResponse
	if err := a.do(ctx, http.MethodPost, "/api/users/bulk-delete", dto.BulkDeleteRequest{IDs: ids}, &out); err != nil {
		return 0, err
	}
	return out.Deleted, nil
}

// BulkSetRole cambia el rol de varios ids en una sola transacción del backend.
func (a *API) BulkSetRole(ctx context.Context, ids []int64, role string) (int64, error) {
	var out dto.BulkRoleResponse
	if err := a.do(ctx, http.MethodPost, "/api/users/bulk-role", dto.BulkRoleRequest{IDs: ids, Role: role}, &out); err != nil {
		return 0, err
	}
	return out.Updated, nil
}
