package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hongminglow/countries-be/internal/account"
	"github.com/hongminglow/countries-be/internal/http/respond"
	"github.com/hongminglow/countries-be/internal/models"
	"github.com/hongminglow/countries-be/internal/models/dto"
)

// FavoritesHandler adds and removes favorite countries.
type FavoritesHandler struct {
	logger   *slog.Logger
	accounts *account.Service
}

func NewFavoritesHandler(logger *slog.Logger, accounts *account.Service) *FavoritesHandler {
	return &FavoritesHandler{logger: logger, accounts: accounts}
}

// Register attaches favorites routes behind protect.
func (h *FavoritesHandler) Register(mux *http.ServeMux, protect Middleware) {
	mux.Handle("POST /users/favorites", protect(http.HandlerFunc(h.handleAdd)))
	mux.Handle("DELETE /users/favorites/{countryCode}", protect(http.HandlerFunc(h.handleRemove)))
}

func (h *FavoritesHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	var req dto.AddFavoriteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	favorites, err := h.accounts.AddFavorite(r.Context(), userID, req.CountryCode)
	if err != nil {
		writeAccountError(w, r, h.logger, "add favorite", err)
		return
	}
	h.logger.DebugContext(r.Context(), "favorite added", slog.String("user_id", userID), slog.String("country", req.CountryCode))
	respond.JSON(w, http.StatusOK, favoritesResponse(favorites))
}

func (h *FavoritesHandler) handleRemove(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	code := r.PathValue("countryCode")

	favorites, err := h.accounts.RemoveFavorite(r.Context(), userID, code)
	if err != nil {
		writeAccountError(w, r, h.logger, "remove favorite", err)
		return
	}
	h.logger.DebugContext(r.Context(), "favorite removed", slog.String("user_id", userID), slog.String("country", code))
	respond.JSON(w, http.StatusOK, favoritesResponse(favorites))
}

func favoritesResponse(favorites models.Favorites) dto.FavoritesResponse {
	return dto.FavoritesResponse{Success: true, FavoriteCountries: favorites.Clone()}
}
