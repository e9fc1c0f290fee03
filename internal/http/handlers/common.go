package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hongminglow/countries-be/internal/account"
	"github.com/hongminglow/countries-be/internal/auth"
	"github.com/hongminglow/countries-be/internal/http/respond"
	"github.com/hongminglow/countries-be/internal/middleware"
)

const maxBodyBytes = 1 << 20

// Middleware wraps a handler, e.g. the session check on protected routes.
type Middleware func(http.Handler) http.Handler

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return false
	}
	return true
}

// writeAccountError maps account errors to status codes. Unknown errors are
// logged and answered with a generic 500.
func writeAccountError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, account.ErrInvalidInput):
		respond.Error(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), account.ErrInvalidInput.Error()+": "))
	case errors.Is(err, account.ErrConflict):
		respond.Error(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, account.ErrAlreadyFavorite):
		respond.Error(w, http.StatusBadRequest, "Country already in favorites")
	case errors.Is(err, account.ErrInvalidCredentials):
		respond.Error(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, account.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "User not found")
	default:
		logger.ErrorContext(r.Context(), op+" failed", slog.Any("error", err))
		respond.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

// currentUserID returns the id attached by the session middleware.
func currentUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Not authorized to access this route")
		return "", false
	}
	return user.ID, true
}

func setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(auth.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}
