package dto

import "github.com/hongminglow/countries-be/internal/models"

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Success  bool   `json:"success"`
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// UpdateProfileRequest carries a partial update; unset fields keep their stored value.
type UpdateProfileRequest struct {
	Username models.Optional[string] `json:"username"`
	Email    models.Optional[string] `json:"email"`
	Password models.Optional[string] `json:"password"`
}

type ProfileResponse struct {
	Success           bool             `json:"success"`
	ID                string           `json:"id"`
	Username          string           `json:"username"`
	Email             string           `json:"email"`
	FavoriteCountries models.Favorites `json:"favoriteCountries"`
}

// NewProfileResponse flattens a public user into the profile payload.
func NewProfileResponse(user models.PublicUser) ProfileResponse {
	return ProfileResponse{
		Success:           true,
		ID:                user.ID,
		Username:          user.Username,
		Email:             user.Email,
		FavoriteCountries: user.FavoriteCountries.Clone(),
	}
}
