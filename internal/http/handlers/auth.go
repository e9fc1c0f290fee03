package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hongminglow/countries-be/internal/account"
	"github.com/hongminglow/countries-be/internal/http/respond"
	"github.com/hongminglow/countries-be/internal/models/dto"
)

// AuthHandler owns register/login/logout endpoints.
type AuthHandler struct {
	logger        *slog.Logger
	accounts      *account.Service
	secureCookies bool
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(logger *slog.Logger, accounts *account.Service, secureCookies bool) *AuthHandler {
	return &AuthHandler{logger: logger, accounts: accounts, secureCookies: secureCookies}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /users/register", h.handleRegister)
	mux.HandleFunc("POST /users/login", h.handleLogin)
	mux.HandleFunc("POST /users/logout", h.handleLogout)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.accounts.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeAccountError(w, r, h.logger, "register", err)
		return
	}

	h.logger.InfoContext(r.Context(), "user registered", slog.String("user_id", session.User.ID))
	setSessionCookie(w, session.Token, session.ExpiresAt, h.secureCookies)
	respond.JSON(w, http.StatusCreated, authResponse(session))
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAccountError(w, r, h.logger, "login", err)
		return
	}

	h.logger.InfoContext(r.Context(), "user logged in", slog.String("user_id", session.User.ID))
	setSessionCookie(w, session.Token, session.ExpiresAt, h.secureCookies)
	respond.JSON(w, http.StatusOK, authResponse(session))
}

// handleLogout always succeeds, whether or not the caller had a session.
func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w, h.secureCookies)
	respond.JSON(w, http.StatusOK, dto.MessageResponse{Success: true, Message: "Logged out successfully"})
}

func authResponse(session account.Session) dto.AuthResponse {
	return dto.AuthResponse{
		Success:  true,
		ID:       session.User.ID,
		Username: session.User.Username,
		Email:    session.User.Email,
		Token:    session.Token,
	}
}
