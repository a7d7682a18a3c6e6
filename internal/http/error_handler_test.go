package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchantportal/internal/errx"
	"merchantportal/internal/http/handlers"
)

func errorApp() *fiber.App {
	app := fiber.New(fiber.Config{Views: handlers.NewEngine(templatesDir), ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "db timeout: secret trace")
	})
	app.Get("/bad", func(c *fiber.Ctx) error {
		return errx.Validation("Invalid DayOfWeek: Funday")
	})
	app.Use(handlers.NotFound)
	return app
}

func TestErrorHandlerHidesInternals(t *testing.T) {
	app := errorApp()

	var resp *http.Response
	logs := captureLogs(t, func() {
		var err error
		resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
		require.NoError(t, err)
	})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	s := body(t, resp)
	assert.Contains(t, s, "Something went wrong")
	assert.NotContains(t, s, "db timeout")
	assert.NotContains(t, s, "secret")

	e, found := findLog(logs, "server.error")
	require.True(t, found)
	assert.Contains(t, e.Err, "db timeout")
}

func TestErrorHandlerKeepsAppErrorStatus(t *testing.T) {
	resp, err := errorApp().Test(httptest.NewRequest(http.MethodGet, "/bad", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Invalid DayOfWeek: Funday")
}

func TestUnknownRouteRendersNotFound(t *testing.T) {
	resp, err := errorApp().Test(httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body(t, resp), errx.NotFoundMessage)
}

func TestCSRFRejectsPostWithoutToken(t *testing.T) {
	app := fiber.New(fiber.Config{Views: handlers.NewEngine(templatesDir)})
	app.Use(csrf.New(csrf.Config{
		Extractor:      handlers.CSRFToken,
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		ErrorHandler:   handlers.CSRFFailed,
	}))
	app.Post("/language/set", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	var resp *http.Response
	logs := captureLogs(t, func() {
		req := httptest.NewRequest(http.MethodPost, "/language/set", strings.NewReader(url.Values{"culture": {"en-US"}}.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		var err error
		resp, err = app.Test(req)
		require.NoError(t, err)
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_, found := findLog(logs, "csrf.fail")
	assert.True(t, found)

	// With the token from a safe request the same post goes through.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NoError(t, err)
	tok := cookie(resp, "csrf_")
	require.NotNil(t, tok)

	req := httptest.NewRequest(http.MethodPost, "/language/set", strings.NewReader(url.Values{"csrf": {tok.Value}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok.Value})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// JSON posts carry it in the header instead.
	req = httptest.NewRequest(http.MethodPost, "/language/set", strings.NewReader(`{"culture":"en-US"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(csrf.HeaderName, tok.Value)
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok.Value})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
