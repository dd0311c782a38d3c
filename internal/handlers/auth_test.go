package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterBootstrapAndRefusal(t *testing.T) {
	app, stores := newTestApp(t)

	token := registerAdmin(t, app)
	assert.NotEmpty(t, token)
	assert.True(t, stores.Credentials.HasAdmin())

	// The single-admin invariant holds over HTTP too.
	resp := doRequest(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"username": "second",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Len(t, stores.Credentials.Credentials(), 1)
}

func TestRegisterValidation(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"username": "ab",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"username": "admin",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginFailuresLookTheSame(t *testing.T) {
	app, _ := newTestApp(t)
	registerAdmin(t, app)

	wrongPassword := doRequest(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"username": "admin",
		"password": "wrong",
	})
	unknownUser := doRequest(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"username": "nobody",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.StatusCode)
}

func TestSessionLifecycle(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerAdmin(t, app)

	resp := doRequest(t, app, http.MethodGet, "/api/auth/session", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	payload := decodeBody(t, resp)
	user := payload["user"].(map[string]any)
	assert.Equal(t, "admin", user["name"])
	assert.Equal(t, "admin", user["role"])

	resp = doRequest(t, app, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The token is still valid but the persisted session is gone.
	resp = doRequest(t, app, http.MethodGet, "/api/auth/session", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app, _ := newTestApp(t)
	registerAdmin(t, app)

	resp := doRequest(t, app, http.MethodGet, "/api/deliveries", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/api/deliveries", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoleGating(t *testing.T) {
	app, _ := newTestApp(t)
	adminToken := registerAdmin(t, app)

	_, schedulerToken := createAccount(t, app, adminToken, "sched", "scheduler")
	_, messengerToken := createAccount(t, app, adminToken, "carla", "messenger")

	// User management is admin only.
	resp := doRequest(t, app, http.MethodGet, "/api/users", schedulerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Schedulers create deliveries, messengers do not.
	body := fiber.Map{
		"sender":      fiber.Map{"name": "Ana", "phone": "555-0001", "address": "Calle 1"},
		"receiver":    fiber.Map{"name": "Beto", "phone": "555-0002", "address": "Calle 2"},
		"zone":        "zona_1",
		"packageCost": 10,
	}
	resp = doRequest(t, app, http.MethodPost, "/api/deliveries", schedulerToken, body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/api/deliveries", messengerToken, body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Settings writes are admin only, reads are not.
	resp = doRequest(t, app, http.MethodPut, "/api/settings", schedulerToken, fiber.Map{"companyName": "X"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/api/settings", messengerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDeletedCredentialTokenIsRejected(t *testing.T) {
	app, stores := newTestApp(t)
	adminToken := registerAdmin(t, app)

	messengerID, messengerToken := createAccount(t, app, adminToken, "carla", "messenger")

	resp := doRequest(t, app, http.MethodDelete, "/api/users/"+messengerID, adminToken, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Nil(t, stores.Credentials.FindByID(messengerID))

	resp = doRequest(t, app, http.MethodGet, "/api/deliveries", messengerToken, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
