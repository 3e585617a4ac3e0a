package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jsuarez/inventario-api/internal/interfaces/http"
	pkgjwt "github.com/jsuarez/inventario-api/pkg/jwt"
	"github.com/jsuarez/inventario-api/pkg/logger"
)

func TestRequestLogger_RegistraUsuarioYRequestID(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(apphttp.RequestLogger(logger.New(logger.Config{Env: "production", Level: "info", Out: &buf})))
	app.Get("/publico", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/privado", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/privado", nil)
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleAdmin))
	req.Header.Set("X-Request-ID", "req-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "req-123", resp.Header.Get("X-Request-ID"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, testUserID, entry["user_id"])
	assert.Equal(t, "req-123", entry["request_id"])
	assert.EqualValues(t, 200, entry["status"])

	buf.Reset()
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/publico", nil), -1)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	entry = map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, "user_id")
}
