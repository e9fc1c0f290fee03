package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/countries-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures persistence operations needed by the account service.
// Implementations receive already hashed passwords and never see plaintext.
type UserStore interface {
	// CreateUser inserts user and returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	// SaveUser overwrites username, email, password hash and favorites of an
	// existing user. The last writer wins.
	SaveUser(ctx context.Context, user models.User) (models.User, error)
	Close() error
}
