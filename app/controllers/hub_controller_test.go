package controllers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHubApp(hc *HubController) *fiber.App {
	app := fiber.New()
	app.Post("/hub/install", hc.HandleInstall)
	app.Get("/hub/callback", hc.HandleCallback)
	app.Post("/hub/callback", hc.HandleCallback)
	app.Get("/hub/status", hc.HandleStatus)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, body, contentType string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(fiber.HeaderContentType, contentType)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHubController_Install(t *testing.T) {
	hub := &fakeHub{token: "tok-1"}
	app := newHubApp(NewHubController(hub, "https://shop.example.com/"))

	status, body := doJSON(t, app, fiber.MethodPost, "/hub/install", "seed=abc", fiber.MIMEApplicationForm)

	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "tok-1", body["install_token"])
	assert.Equal(t, "https://shop.example.com/hub/callback", body["callback_url"])
	assert.Equal(t, []string{"abc"}, hub.seeds)
}

func TestHubController_InstallGeneratesSeed(t *testing.T) {
	hub := &fakeHub{token: "tok-1"}
	app := newHubApp(NewHubController(hub, ""))

	status, _ := doJSON(t, app, fiber.MethodPost, "/hub/install", "", "")

	assert.Equal(t, fiber.StatusCreated, status)
	require.Len(t, hub.seeds, 1)
	assert.NotEmpty(t, hub.seeds[0])
}

func TestHubController_InstallFailure(t *testing.T) {
	app := newHubApp(NewHubController(&fakeHub{err: errors.New("db down")}, ""))

	status, body := doJSON(t, app, fiber.MethodPost, "/hub/install", "", "")

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Could not start hub integration", body["message"])
}

func TestHubController_CallbackGet(t *testing.T) {
	hub := &fakeHub{status: "enabled"}
	app := newHubApp(NewHubController(hub, "https://shop.example.com"))

	status, body := doJSON(t, app, fiber.MethodGet, "/hub/callback?install_token=tok-1&code=auth-code", "", "")

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "enabled", body["status"])
	require.Len(t, hub.endArgs, 1)
	assert.Equal(t, [4]string{
		"tok-1",
		"auth-code",
		"https://shop.example.com/hub/callback",
		"https://shop.example.com/webhooks/plug",
	}, hub.endArgs[0])
}

func TestHubController_CallbackPostJSON(t *testing.T) {
	hub := &fakeHub{status: "disabled"}
	app := newHubApp(NewHubController(hub, "https://shop.example.com"))

	status, body := doJSON(t, app, fiber.MethodPost, "/hub/callback",
		`{"install_token":"tok-2","code":"c"}`, fiber.MIMEApplicationJSON)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "disabled", body["status"])
	require.Len(t, hub.endArgs, 1)
	assert.Equal(t, "tok-2", hub.endArgs[0][0])
}

func TestHubController_CallbackMissingFields(t *testing.T) {
	hub := &fakeHub{}
	app := newHubApp(NewHubController(hub, ""))

	status, body := doJSON(t, app, fiber.MethodGet, "/hub/callback?code=only", "", "")

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "bad_request", body["error"])
	assert.Empty(t, hub.endArgs)
}

func TestHubController_CallbackRequiresBaseURL(t *testing.T) {
	hub := &fakeHub{}
	app := newHubApp(NewHubController(hub, ""))

	req := httptest.NewRequest(fiber.MethodGet, "/hub/callback?install_token=tok-1&code=auth-code", nil)
	req.Host = "attacker.example"
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "hub_not_configured", body["error"])
	assert.Empty(t, hub.endArgs)
}

func TestHubController_Status(t *testing.T) {
	app := newHubApp(NewHubController(&fakeHub{status: "enabled"}, ""))

	status, body := doJSON(t, app, fiber.MethodGet, "/hub/status", "", "")

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "enabled", body["status"])
}
