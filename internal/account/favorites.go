package account

import (
	"context"
	"fmt"

	"github.com/hongminglow/countries-be/internal/models"
)

// AddFavorite appends code to the user's favorites. A code that is already
// present yields ErrAlreadyFavorite and nothing is written.
func (s *Service) AddFavorite(ctx context.Context, userID, code string) (models.Favorites, error) {
	code = models.NormalizeCountryCode(code)
	if code == "" {
		return nil, fmt.Errorf("%w: countryCode is required", ErrInvalidInput)
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	favorites, added := user.FavoriteCountries.Add(code)
	if !added {
		return nil, ErrAlreadyFavorite
	}
	user.FavoriteCountries = favorites

	saved, err := s.save(ctx, user)
	if err != nil {
		return nil, err
	}
	return saved.FavoriteCountries.Clone(), nil
}

// RemoveFavorite drops code from the user's favorites. Removing a code that is
// not present succeeds and returns the unchanged list.
func (s *Service) RemoveFavorite(ctx context.Context, userID, code string) (models.Favorites, error) {
	code = models.NormalizeCountryCode(code)
	if code == "" {
		return nil, fmt.Errorf("%w: countryCode is required", ErrInvalidInput)
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.FavoriteCountries = user.FavoriteCountries.Remove(code)

	saved, err := s.save(ctx, user)
	if err != nil {
		return nil, err
	}
	return saved.FavoriteCountries.Clone(), nil
}
