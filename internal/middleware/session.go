package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hongminglow/countries-be/internal/auth"
	"github.com/hongminglow/countries-be/internal/http/respond"
	"github.com/hongminglow/countries-be/internal/models"
	"github.com/hongminglow/countries-be/internal/storage"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "token"

const unauthorizedMessage = "Not authorized to access this route"

// TokenVerifier resolves a session token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserFinder loads a user by id.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (models.User, error)
}

// Session requires a valid session cookie naming an existing user. On success
// the user, without its password hash, is attached to the request context.
// Otherwise the request ends with 401 (500 if the store fails) and next is not called.
func Session(logger *slog.Logger, tokens TokenVerifier, users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				logger.DebugContext(ctx, "missing session cookie", slog.String("path", r.URL.Path))
				respond.Error(w, http.StatusUnauthorized, unauthorizedMessage)
				return
			}

			userID, err := tokens.Verify(cookie.Value)
			if err != nil {
				logger.WarnContext(ctx, "rejected session token", slog.Any("error", err))
				respond.Error(w, http.StatusUnauthorized, unauthorizedMessage)
				return
			}

			user, err := users.FindByID(ctx, userID)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					logger.WarnContext(ctx, "session names unknown user", slog.String("user_id", userID))
					respond.Error(w, http.StatusUnauthorized, unauthorizedMessage)
					return
				}
				logger.ErrorContext(ctx, "failed to resolve session user", slog.String("user_id", userID), slog.Any("error", err))
				respond.Error(w, http.StatusInternalServerError, "internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUser(ctx, user.Public())))
		})
	}
}
