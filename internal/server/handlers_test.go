package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-auth-server/internal/auth"
	"github.com/goliatone/go-auth-server/internal/config"
	"github.com/goliatone/go-auth-server/internal/logging"
	"github.com/goliatone/go-auth-server/internal/server"
	"github.com/goliatone/go-auth-server/internal/store/memory"
)

func testServerConfig() *config.Config {
	return &config.Config{
		Addr:            ":0",
		SigningKey:      "test-signing-key",
		TokenExpiration: 24,
		Issuer:          "go-auth-server",
		Audience:        []string{"go-auth-server"},
		CookieName:      "token",
	}
}

func newTestServer() (*fiber.App, *memory.UserStore, *memory.TokenBlacklist) {
	cfg := testServerConfig()
	users := memory.NewUserStore()
	blacklist := memory.NewTokenBlacklist()
	auther := auth.NewAuthenticator(users, blacklist, cfg)
	srv := server.New(cfg, auther, logging.Default())
	return srv.App(), users, blacklist
}

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func registerBody() map[string]any {
	return map[string]any{
		"fullname": map[string]any{"firstname": "Ann", "lastname": "X"},
		"email":    "a@x.com",
		"password": "secret1",
	}
}

func TestRegister(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		app, _, _ := newTestServer()

		resp, err := app.Test(jsonRequest("POST", "/register", registerBody()))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.NotEmpty(t, body["token"])

		user, ok := body["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "a@x.com", user["email"])
		assert.NotContains(t, user, "password")
		assert.NotContains(t, user, "password_hash")
	})

	t.Run("malformed body", func(t *testing.T) {
		app, _, _ := newTestServer()

		req := httptest.NewRequest("POST", "/register", bytes.NewReader([]byte("{")))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("validation failures", func(t *testing.T) {
		app, _, _ := newTestServer()

		tests := []struct {
			name   string
			mutate func(map[string]any)
		}{
			{"invalid email", func(b map[string]any) { b["email"] = "not-an-email" }},
			{"short password", func(b map[string]any) { b["password"] = "abc" }},
			{"short firstname", func(b map[string]any) {
				b["fullname"] = map[string]any{"firstname": "An", "lastname": "X"}
			}},
			{"missing email", func(b map[string]any) { delete(b, "email") }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				body := registerBody()
				tt.mutate(body)

				resp, err := app.Test(jsonRequest("POST", "/register", body))
				require.NoError(t, err)
				assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			})
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		app, _, _ := newTestServer()

		resp, err := app.Test(jsonRequest("POST", "/register", registerBody()))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)

		resp, err = app.Test(jsonRequest("POST", "/register", registerBody()))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})
}

func TestLogin(t *testing.T) {
	app, _, _ := newTestServer()

	resp, err := app.Test(jsonRequest("POST", "/register", registerBody()))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	t.Run("success sets cookie and returns redacted user", func(t *testing.T) {
		resp, err := app.Test(jsonRequest("POST", "/login", map[string]any{
			"email":    "a@x.com",
			"password": "secret1",
		}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var cookie *http.Cookie
		for _, c := range resp.Cookies() {
			if c.Name == "token" {
				cookie = c
			}
		}
		require.NotNil(t, cookie)
		assert.NotEmpty(t, cookie.Value)
		assert.True(t, cookie.HttpOnly)

		body := decodeBody(t, resp)
		assert.Equal(t, true, body["success"])
		assert.NotEmpty(t, body["token"])

		user, ok := body["user"].(map[string]any)
		require.True(t, ok)
		assert.NotEmpty(t, user["id"])
		assert.Equal(t, "a@x.com", user["email"])
		assert.NotContains(t, user, "password")
	})

	t.Run("wrong password", func(t *testing.T) {
		resp, err := app.Test(jsonRequest("POST", "/login", map[string]any{
			"email":    "a@x.com",
			"password": "wrong-password",
		}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, false, body["success"])
	})

	t.Run("unknown email gets the same response as a wrong password", func(t *testing.T) {
		resp, err := app.Test(jsonRequest("POST", "/login", map[string]any{
			"email":    "nobody@x.com",
			"password": "secret1",
		}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("validation failure", func(t *testing.T) {
		resp, err := app.Test(jsonRequest("POST", "/login", map[string]any{
			"email":    "a@x.com",
			"password": "abc",
		}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestProfile(t *testing.T) {
	app, _, _ := newTestServer()

	resp, err := app.Test(jsonRequest("POST", "/register", registerBody()))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	token, _ := decodeBody(t, resp)["token"].(string)
	require.NotEmpty(t, token)

	t.Run("bearer token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/profile", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "a@x.com", body["email"])
		assert.NotEmpty(t, body["id"])
		assert.NotContains(t, body, "password")
	})

	t.Run("cookie token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/profile", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: token})

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("missing token", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/profile", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("authorization scheme without a space", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/profile", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer"+token)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/profile", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-token")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLogoutScenario(t *testing.T) {
	// register -> login -> profile -> logout -> profile again with the
	// same token must fail even though signature and expiry still hold.
	app, _, blacklist := newTestServer()

	resp, err := app.Test(jsonRequest("POST", "/register", registerBody()))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = app.Test(jsonRequest("POST", "/login", map[string]any{
		"email":    "a@x.com",
		"password": "secret1",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	token, _ := decodeBody(t, resp)["token"].(string)
	require.NotEmpty(t, token)

	profileReq := func() *http.Request {
		req := httptest.NewRequest("GET", "/profile", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		return req
	}

	resp, err = app.Test(profileReq())
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	logoutReq := httptest.NewRequest("GET", "/logout", nil)
	logoutReq.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err = app.Test(logoutReq)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Logged out", body["message"])

	// the cleared cookie is in the response
	var cleared *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			cleared = c
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	resp, err = app.Test(profileReq())
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// second logout attempt with the same token is rejected by the
	// session guard; the blacklist holds a single entry
	resp, err = app.Test(logoutReq)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 1, blacklist.Len())
}
