package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"

	"github.com/hongminglow/countries-be/internal/account"
	"github.com/hongminglow/countries-be/internal/auth"
	"github.com/hongminglow/countries-be/internal/models/dto"
	"github.com/hongminglow/countries-be/internal/storage/postgres"
)

// TestAuthIntegration exercises the register/login endpoints against a live Postgres DB.
func TestAuthIntegration(t *testing.T) {
	if os.Getenv("RUN_AUTH_INTEGRATION") != "true" {
		t.Skip("set RUN_AUTH_INTEGRATION=true to run this integration test")
	}

	loadDotEnv()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	store, err := postgres.NewUserStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	defer store.Close()

	tokens := auth.NewTokenManager(mustGetEnv(t, "JWT_SECRET"), os.Getenv("JWT_ISSUER"))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mux := http.NewServeMux()
	NewAuthHandler(logger, account.NewService(store, tokens), false).Register(mux)

	ts := httptest.NewServer(mux)
	defer ts.Close()

	username := fmt.Sprintf("apitest_%d", time.Now().UnixNano())
	email := fmt.Sprintf("%s@example.com", username)
	password := fmt.Sprintf("Pass!%d", time.Now().UnixNano())

	registered := postAuth(t, ts.URL+"/users/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, http.StatusCreated)
	if registered.Username != username || registered.Email != email {
		t.Fatalf("register mismatch: got %+v", registered)
	}

	loggedIn := postAuth(t, ts.URL+"/users/login", map[string]string{
		"email":    email,
		"password": password,
	}, http.StatusOK)
	if loggedIn.ID != registered.ID {
		t.Fatalf("login returned wrong user id: want %s got %s", registered.ID, loggedIn.ID)
	}
	if strings.TrimSpace(loggedIn.Token) == "" {
		t.Fatal("login response missing token")
	}

	t.Logf("created user %s (id=%s) and successfully logged in", username, registered.ID)
}

func postAuth(t *testing.T, url string, payload map[string]string, wantStatus int) dto.AuthResponse {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("%s status = %d", url, resp.StatusCode)
	}

	var out dto.AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func mustGetEnv(t *testing.T, key string) string {
	t.Helper()
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		t.Fatalf("%s is required", key)
	}
	return val
}

func loadDotEnv() {
	paths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
		"../../../../.env",
	}
	for _, path := range paths {
		_ = godotenv.Overload(path)
	}
}
