package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/user-management-api/internal/application/dto"
)

func TestAPIGetUsersEnviaToken(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.RequestURI()
		_ = json.NewEncoder(w).Encode(dto.UserListResponse{
			Data:    []dto.UserResponse{{ID: 1, Name: "Ann"}},
			HasMore: true, Total: 10, Page: 2, PageSize: 4,
		})
	}))
	defer srv.Close()

	api := NewAPI(srv.URL + "/") // el slash final se normaliza
	api.SetToken("token-abc")

	page, err := api.GetUsers(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Bearer token-abc", gotAuth)
	assert.Equal(t, "/api/users?page=2", gotPath)
	require.Len(t, page.Data, 1)
	assert.True(t, page.HasMore)
}

func TestAPIErrorDecodificado(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Code: "NOT_FOUND", Message: "usuario no encontrado"})
	}))
	defer srv.Close()

	api := NewAPI(srv.URL)
	_, err := api.GetUsers(context.Background(), 1)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.False(t, apiErr.IsAuthError())
}

func TestAPIErrorDeAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
	}))
	defer srv.Close()

	api := NewAPI(srv.URL)
	_, err := api.Me(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsAuthError())
}

func TestAPILoginFijaToken(t *testing.T) {
	var sawAuthOnMe string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			_ = json.NewEncoder(w).Encode(dto.AuthResponse{Token: "token-xyz", User: dto.UserResponse{ID: 1}})
		case "/api/auth/me":
			sawAuthOnMe = r.Header.Get("Authorization")
			_ = json.NewEncoder(w).Encode(dto.UserResponse{ID: 1})
		}
	}))
	defer srv.Close()

	api := NewAPI(srv.URL)
	out, err := api.Login(context.Background(), "admin@demo.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "token-xyz", out.Token)

	// Tras el login, las peticiones siguientes ya llevan el token.
	_, err = api.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer token-xyz", sawAuthOnMe)
}

func TestAPIRespuestaNoJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("bad gateway"))
	}))
	defer srv.Close()

	api := NewAPI(srv.URL)
	_, err := api.GetUsers(context.Background(), 1)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "UNKNOWN", apiErr.Code)
}
