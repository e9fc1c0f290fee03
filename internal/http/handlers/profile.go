package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hongminglow/countries-be/internal/account"
	"github.com/hongminglow/countries-be/internal/http/respond"
	"github.com/hongminglow/countries-be/internal/models/dto"
)

// ProfileHandler serves the authenticated user's profile.
type ProfileHandler struct {
	logger   *slog.Logger
	accounts *account.Service
}

func NewProfileHandler(logger *slog.Logger, accounts *account.Service) *ProfileHandler {
	return &ProfileHandler{logger: logger, accounts: accounts}
}

// Register attaches profile routes behind protect.
func (h *ProfileHandler) Register(mux *http.ServeMux, protect Middleware) {
	mux.Handle("GET /users/profile", protect(http.HandlerFunc(h.handleGet)))
	mux.Handle("PUT /users/profile", protect(http.HandlerFunc(h.handleUpdate)))
}

func (h *ProfileHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	profile, err := h.accounts.Profile(r.Context(), userID)
	if err != nil {
		writeAccountError(w, r, h.logger, "get profile", err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.NewProfileResponse(profile))
}

func (h *ProfileHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.accounts.UpdateProfile(r.Context(), userID, account.ProfileUpdate{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeAccountError(w, r, h.logger, "update profile", err)
		return
	}

	h.logger.InfoContext(r.Context(), "profile updated", slog.String("user_id", userID))
	respond.JSON(w, http.StatusOK, dto.NewProfileResponse(updated))
}
