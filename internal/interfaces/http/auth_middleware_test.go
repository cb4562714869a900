package http

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/user-management-api/internal/domain/entity"
)

func newProtectedApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	chain := append([]fiber.Handler{AuthMiddleware(testSecret)}, handlers...)
	chain = append(chain, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userId": GetUserID(c), "role": GetRole(c)})
	})
	app.Get("/protegida", chain...)
	return app
}

func TestAuthMiddlewareSinHeader(t *testing.T) {
	app := newProtectedApp()

	req := httptest.NewRequest(fiber.MethodGet, "/protegida", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareFormatoInvalido(t *testing.T) {
	app := newProtectedApp()

	// Sin el prefijo Bearer no hay token válido.
	req := httptest.NewRequest(fiber.MethodGet, "/protegida", nil)
	req.Header.Set("Authorization", tokenWithRole(t, entity.RoleAdmin))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareTokenInvalido(t *testing.T) {
	app := newProtectedApp()

	req := httptest.NewRequest(fiber.MethodGet, "/protegida", nil)
	req.Header.Set("Authorization", "Bearer no-es-un-jwt")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareCargaIdentidad(t *testing.T) {
	app := newProtectedApp()

	req := httptest.NewRequest(fiber.MethodGet, "/protegida", nil)
	req.Header.Set("Authorization", "Bearer "+tokenWithRole(t, entity.RoleManager))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.Equal(t, float64(1), body["userId"])
	assert.Equal(t, entity.RoleManager, body["role"])
}

func TestRequireRoleProhibido(t *testing.T) {
	app := newProtectedApp(RequireRole(entity.RoleAdmin, entity.RoleManager))

	req := httptest.NewRequest(fiber.MethodGet, "/protegida", nil)
	req.Header.Set("Authorization", "Bearer "+tokenWithRole(t, entity.RoleUser))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRolePermitido(t *testing.T) {
	app := newProtectedApp(RequireRole(entity.RoleAdmin, entity.RoleManager))

	req := httptest.NewRequest(fiber.MethodGet, "/protegida", nil)
	req.Header.Set("Authorization", "Bearer "+tokenWithRole(t, entity.RoleManager))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
