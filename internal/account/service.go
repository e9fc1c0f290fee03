// Package account implements registration, login, profile and favorites
// operations on top of a storage.UserStore.
//
// Favorites mutations read the user, change the list in memory and write the
// whole list back. Two concurrent mutations for the same user race and the
// last write wins; no locking is done.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/countries-be/internal/auth"
	"github.com/hongminglow/countries-be/internal/models"
	"github.com/hongminglow/countries-be/internal/storage"
)

// Password length bounds, in bytes. bcrypt rejects inputs longer than 72 bytes.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

var (
	ErrConflict           = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("user not found")
	ErrAlreadyFavorite    = errors.New("country already in favorites")
	ErrInvalidInput       = errors.New("invalid input")
)

// Tokens issues session tokens.
type Tokens interface {
	Issue(userID string) (string, time.Time, error)
}

// Session is the outcome of a successful register or login.
type Session struct {
	User      models.PublicUser
	Token     string
	ExpiresAt time.Time
}

// Service runs account and favorites operations.
type Service struct {
	store  storage.UserStore
	tokens Tokens
}

// NewService constructs the service.
func NewService(store storage.UserStore, tokens Tokens) *Service {
	return &Service{store: store, tokens: tokens}
}

// Register creates a user and issues a session token for it.
func (s *Service) Register(ctx context.Context, username, email, password string) (Session, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" || password == "" {
		return Session{}, fmt.Errorf("%w: username, email, and password are required", ErrInvalidInput)
	}
	if err := validatePassword(password); err != nil {
		return Session{}, err
	}

	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return Session{}, ErrConflict
	} else if !errors.Is(err, storage.ErrNotFound) {
		return Session{}, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}
	created, err := s.store.CreateUser(ctx, models.User{
		ID:                uuid.NewString(),
		Username:          username,
		Email:             email,
		PasswordHash:      hash,
		FavoriteCountries: models.Favorites{},
	})
	if err != nil {
		// lost a race with a concurrent registration for the same email
		if errors.Is(err, storage.ErrAlreadyExists) {
			return Session{}, ErrConflict
		}
		return Session{}, fmt.Errorf("create user: %w", err)
	}

	return s.newSession(created)
}

// Login checks the credentials and issues a session token. Unknown email and
// wrong password both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("lookup email: %w", err)
	}
	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return Session{}, fmt.Errorf("compare password: %w", err)
	}
	if !ok {
		return Session{}, ErrInvalidCredentials
	}

	return s.newSession(user)
}

// Profile returns the public fields of the user with id.
func (s *Service) Profile(ctx context.Context, id string) (models.PublicUser, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return models.PublicUser{}, err
	}
	return user.Public(), nil
}

// ProfileUpdate lists the fields to change. Unset or empty values keep the stored value.
type ProfileUpdate struct {
	Username models.Optional[string]
	Email    models.Optional[string]
	Password models.Optional[string]
}

// UpdateProfile applies a partial update and re-hashes the password if one is supplied.
func (s *Service) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (models.PublicUser, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return models.PublicUser{}, err
	}

	if v, ok := update.Username.Get(); ok && strings.TrimSpace(v) != "" {
		user.Username = strings.TrimSpace(v)
	}
	if v, ok := update.Email.Get(); ok && normalizeEmail(v) != "" {
		user.Email = normalizeEmail(v)
	}
	if v, ok := update.Password.Get(); ok && v != "" {
		if err := validatePassword(v); err != nil {
			return models.PublicUser{}, err
		}
		hash, err := auth.HashPassword(v)
		if err != nil {
			return models.PublicUser{}, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	saved, err := s.save(ctx, user)
	if err != nil {
		return models.PublicUser{}, err
	}
	return saved.Public(), nil
}

func (s *Service) newSession(user models.User) (Session, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{User: user.Public(), Token: token, ExpiresAt: expiresAt}, nil
}

func (s *Service) load(ctx context.Context, id string) (models.User, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (s *Service) save(ctx context.Context, user models.User) (models.User, error) {
	saved, err := s.store.SaveUser(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return models.User{}, ErrNotFound
		case errors.Is(err, storage.ErrAlreadyExists):
			return models.User{}, ErrConflict
		default:
			return models.User{}, fmt.Errorf("save user: %w", err)
		}
	}
	return saved, nil
}

func validatePassword(password string) error {
	switch {
	case len(password) < MinPasswordLength:
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	case len(password) > MaxPasswordLength:
		return fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, MaxPasswordLength)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
