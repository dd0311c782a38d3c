package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/example/courierops/internal/config"
	"github.com/example/courierops/internal/routes"
	"github.com/example/courierops/internal/storage"
	"github.com/example/courierops/internal/store"
)

func newTestApp(t *testing.T) (*fiber.App, routes.Stores) {
	t.Helper()

	cfg := &config.Config{
		AppPort:       "0",
		StorageDriver: "memory",
		JWTSecret:     "test-secret",
		TokenExpires:  time.Hour,
	}

	backing := storage.NewMemory()
	stores := routes.Stores{
		Deliveries:  store.NewDeliveryLedger(backing),
		Pickups:     store.NewPickupLedger(backing),
		Credentials: store.NewCredentialStore(backing),
		Settings:    store.NewSettingsStore(backing),
	}

	app := fiber.New()
	routes.Register(app, backing, stores, cfg)
	return app, stores
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

// registerAdmin bootstraps the admin account and returns its token.
func registerAdmin(t *testing.T, app *fiber.App) string {
	t.Helper()

	resp := doRequest(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"username": "admin",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	payload := decodeBody(t, resp)
	token, _ := payload["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// createAccount adds a credential through the admin API and logs it in,
// returning its id and token.
func createAccount(t *testing.T, app *fiber.App, adminToken, username, role string) (string, string) {
	t.Helper()

	resp := doRequest(t, app, http.MethodPost, "/api/users", adminToken, fiber.Map{
		"username":  username,
		"password":  "secret123",
		"role":      role,
		"firstName": "Carla",
		"lastName":  "Vega",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody(t, resp)
	id, _ := created["data"].(map[string]any)["id"].(string)
	require.NotEmpty(t, id)

	resp = doRequest(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"username": username,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	logged := decodeBody(t, resp)
	token, _ := logged["token"].(string)
	require.NotEmpty(t, token)
	return id, token
}
