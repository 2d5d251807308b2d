package http_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	apphttp "github.com/jhoicas/inventory-ledger/internal/interfaces/http"
)

func newLoggedApp(buf *bytes.Buffer) *fiber.App {
	log := zerolog.New(buf)
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	app.Use(apphttp.RequestLogger(log))
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendString(apphttp.GetRequestID(c))
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("conexión rechazada por 10.0.0.5")
	})
	return app
}

func TestRequestLogger_GeneraYPropagaRequestID(t *testing.T) {
	var buf bytes.Buffer
	app := newLoggedApp(&buf)

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	id := resp.Header.Get(fiber.HeaderXRequestID)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, string(body))
	assert.Contains(t, buf.String(), `"request_id":"`+id+`"`)
	assert.Contains(t, buf.String(), `"status":200`)

	req := httptest.NewRequest("GET", "/ok", nil)
	req.Header.Set(fiber.HeaderXRequestID, "abc-123")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(fiber.HeaderXRequestID))
}

func TestErrorHandler_RutaInexistenteEnJSON(t *testing.T) {
	var buf bytes.Buffer
	app := newLoggedApp(&buf)

	resp, err := app.Test(httptest.NewRequest("GET", "/nada", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "NOT_FOUND", out.Code)
}

func TestErrorHandler_ErrorNoClasificadoNoExponeCausa(t *testing.T) {
	var buf bytes.Buffer
	app := newLoggedApp(&buf)

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(body), "10.0.0.5")
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "INTERNAL", out.Code)
	assert.Contains(t, buf.String(), "10.0.0.5", "la causa queda en el log")
}
