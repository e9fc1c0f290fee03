package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/countries-be/internal/auth"
	"github.com/hongminglow/countries-be/internal/models"
	"github.com/hongminglow/countries-be/internal/storage"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fakeUsers struct {
	users map[string]models.User
	err   error
}

func (f fakeUsers) FindByID(_ context.Context, id string) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	user, ok := f.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func mustNotRun(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	})
}

func newSessionRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/users/profile", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	}
	return req
}

func TestSession_Success(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", "")
	users := fakeUsers{users: map[string]models.User{
		"u1": {ID: "u1", Username: "alice", Email: "a@x.com", PasswordHash: "hash", FavoriteCountries: models.Favorites{"USA"}},
	}}
	token, _, err := tokens.Issue("u1")
	require.NoError(t, err)

	var seen models.PublicUser
	handler := Session(setupTestLogger(), tokens, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.UserFromContext(r.Context())
		require.True(t, ok, "user should be in context")
		seen = user
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, newSessionRequest(token))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", seen.ID)
	assert.Equal(t, "alice", seen.Username)
	assert.Equal(t, models.Favorites{"USA"}, seen.FavoriteCountries)
}

func TestSession_Rejections(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", "")
	validForGhost, _, err := tokens.Issue("ghost")
	require.NoError(t, err)
	foreign, _, err := auth.NewTokenManager("other-secret", "").Issue("u1")
	require.NoError(t, err)

	users := fakeUsers{users: map[string]models.User{"u1": {ID: "u1"}}}

	tests := []struct {
		name  string
		token string
	}{
		{name: "missing cookie"},
		{name: "garbage token", token: "not-a-token"},
		{name: "wrong signature", token: foreign},
		{name: "unknown user", token: validForGhost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			Session(setupTestLogger(), tokens, users)(mustNotRun(t)).ServeHTTP(w, newSessionRequest(tt.token))

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"success":false,"message":"Not authorized to access this route"}`, w.Body.String())
		})
	}
}

func TestSession_StoreFailure(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", "")
	token, _, err := tokens.Issue("u1")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	users := fakeUsers{err: errors.New("connection reset")}
	Session(setupTestLogger(), tokens, users)(mustNotRun(t)).ServeHTTP(w, newSessionRequest(token))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestSession_MissingSecretFailsClosed(t *testing.T) {
	token, _, err := auth.NewTokenManager("test-secret", "").Issue("u1")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	users := fakeUsers{users: map[string]models.User{"u1": {ID: "u1"}}}
	Session(setupTestLogger(), auth.NewTokenManager("", ""), users)(mustNotRun(t)).ServeHTTP(w, newSessionRequest(token))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
