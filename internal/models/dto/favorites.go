package dto

import "github.com/hongminglow/countries-be/internal/models"

type AddFavoriteRequest struct {
	CountryCode string `json:"countryCode"`
}

type FavoritesResponse struct {
	Success           bool             `json:"success"`
	FavoriteCountries models.Favorites `json:"favoriteCountries"`
}
