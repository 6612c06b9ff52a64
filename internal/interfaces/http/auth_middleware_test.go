package http_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "github.com/jhoicas/Planta-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Planta-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests middleware de autenticación y RBAC
// ──────────────────────────────────────────────────────────────────────────────

const testSecret = "secreto-de-test"

func newApp() *fiber.App {
	app := fiber.New()
	protected := app.Group("/", httpapi.AuthMiddleware(testSecret))
	protected.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": httpapi.GetUserID(c),
			"role":    httpapi.GetRole(c),
		})
	})
	protected.Post("/privilegiada", httpapi.RequireRole(httpapi.RoleSupervisor), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func token(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testSecret, "usuario-1", role, "planta-api", 5)
	require.NoError(t, err)
	return tok
}

// Caso 1: Sin header, con formato malo o con firma ajena: 401.
func TestAuthMiddleware_Rechazos(t *testing.T) {
	app := newApp()

	req := httptest.NewRequest("GET", "/whoami", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "sin Authorization")

	req = httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Basic abc")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "esquema no Bearer")

	otro, err := pkgjwt.Generate("otro-secreto", "usuario-1", "operario", "planta-api", 5)
	require.NoError(t, err)
	req = httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+otro)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "firma con secret ajeno")
}

// Caso 2: Token válido pasa y expone user_id y role en el contexto.
func TestAuthMiddleware_TokenValido(t *testing.T) {
	app := newApp()

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "operario"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

// Caso 3: Un token expirado se rechaza.
func TestAuthMiddleware_TokenExpirado(t *testing.T) {
	app := newApp()

	expirado, err := pkgjwt.Generate(testSecret, "usuario-1", "operario", "planta-api", -5)
	require.NoError(t, err)
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+expirado)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

// Caso 4: RequireRole deja pasar al supervisor y devuelve 403 al resto.
func TestRequireRole_Supervisor(t *testing.T) {
	app := newApp()

	req := httptest.NewRequest("POST", "/privilegiada", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "operario"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "operario no alcanza")

	req = httptest.NewRequest("POST", "/privilegiada", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, httpapi.RoleSupervisor))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
