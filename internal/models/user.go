package models

import "time"

// User captures application-facing fields for an authenticated identity.
type User struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	FavoriteCountries Favorites `json:"favoriteCountries"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// PublicUser is the shape of a user handed to anything outside the store.
// It has no password hash field at all.
type PublicUser struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	FavoriteCountries Favorites `json:"favoriteCountries"`
}

// Public strips credentials from the user.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		FavoriteCountries: u.FavoriteCountries.Clone(),
	}
}
