package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/countries-be/internal/config"
	"github.com/hongminglow/countries-be/internal/logging"
	"github.com/hongminglow/countries-be/internal/storage/sqlite"
)

func newTestServer(t *testing.T, basePath string) *httptest.Server {
	t.Helper()
	store, err := sqlite.NewUserStore(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cfg := config.Config{
		Port:          "0",
		Env:           config.EnvDevelopment,
		StorageDriver: config.DriverSQLite,
		JWTSecret:     "test-secret",
		JWTIssuer:     "country-explorer",
		CORSOrigins:   []string{"*"},
		BasePath:      basePath,
	}
	ts := httptest.NewServer(NewHandler(cfg, store, logging.Discard()))
	t.Cleanup(ts.Close)
	return ts
}

type client struct {
	t       *testing.T
	baseURL string
	cookie  *http.Cookie
}

func (c *client) call(method, path string, body any) (int, map[string]any) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.baseURL+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	for _, ck := range resp.Cookies() {
		if ck.Name == "token" {
			c.cookie = ck
		}
	}

	var out map[string]any
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestExampleScenario(t *testing.T) {
	for _, basePath := range []string{"", "/api"} {
		t.Run("base="+basePath, func(t *testing.T) {
			ts := newTestServer(t, basePath)
			c := &client{t: t, baseURL: ts.URL + basePath}

			status, body := c.call(http.MethodPost, "/users/register", map[string]string{
				"username": "alice", "email": "a@x.com", "password": "secret1",
			})
			require.Equal(t, http.StatusCreated, status)
			assert.NotEmpty(t, body["token"])
			require.NotNil(t, c.cookie)

			status, body = c.call(http.MethodGet, "/users/profile", nil)
			require.Equal(t, http.StatusOK, status)
			assert.Equal(t, "alice", body["username"])
			assert.Equal(t, "a@x.com", body["email"])
			assert.Equal(t, []any{}, body["favoriteCountries"])

			status, body = c.call(http.MethodPost, "/users/favorites", map[string]string{"countryCode": "USA"})
			require.Equal(t, http.StatusOK, status)
			assert.Equal(t, []any{"USA"}, body["favoriteCountries"])

			status, body = c.call(http.MethodPost, "/users/favorites", map[string]string{"countryCode": "USA"})
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "Country already in favorites", body["message"])

			status, body = c.call(http.MethodDelete, "/users/favorites/USA", nil)
			require.Equal(t, http.StatusOK, status)
			assert.Equal(t, []any{}, body["favoriteCountries"])

			status, body = c.call(http.MethodDelete, "/users/favorites/USA", nil)
			require.Equal(t, http.StatusOK, status)
			assert.Equal(t, []any{}, body["favoriteCountries"])

			status, _ = c.call(http.MethodPost, "/users/logout", nil)
			require.Equal(t, http.StatusOK, status)
			status, _ = c.call(http.MethodGet, "/users/profile", nil)
			assert.Equal(t, http.StatusUnauthorized, status)
		})
	}
}

func TestHandler_CORSPreflight(t *testing.T) {
	ts := newTestServer(t, "/api")

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/users/login", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestNew_UsesConfiguredAddress(t *testing.T) {
	srv := New(config.Config{Port: "9090", JWTSecret: "s"}, nil, logging.Discard())
	assert.Equal(t, ":9090", srv.Addr())
}

func TestMiddleware_PanicIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	cfg := config.Config{CORSOrigins: []string{"*"}}

	handler := withMiddleware(cfg, logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/profile", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var accessLine map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		if entry["msg"] == "HTTP request" {
			accessLine = entry
		}
	}
	require.NotNil(t, accessLine, "no access log line for panicking request")
	assert.Equal(t, float64(http.StatusInternalServerError), accessLine["status"])
	assert.Equal(t, "/users/profile", accessLine["path"])
}
