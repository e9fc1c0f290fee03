package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/pressly/goose/v3/database"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/hongminglow/countries-be/internal/models"
	"github.com/hongminglow/countries-be/internal/storage"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

var _ storage.UserStore = (*Store)(nil)

// Store is the SQLite implementation of storage.UserStore.
type Store struct {
	db *sql.DB
}

// NewUserStore opens the database at path and applies migrations.
// Use ":memory:" for a throwaway database.
func NewUserStore(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// single writer; also keeps a :memory: database alive on one connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open migrations: %w", err)
	}
	if err := storage.Migrate(ctx, db, database.DialectSQLite3, fsys); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

const userColumns = `id, username, email, password_hash, favorite_countries, created_at, updated_at`

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	favorites, err := encodeFavorites(user.FavoriteCountries)
	if err != nil {
		return models.User{}, err
	}
	now := time.Now().UTC()

	query := `
		INSERT INTO users (id, username, email, password_hash, favorite_countries, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query, user.ID, user.Username, user.Email, user.PasswordHash, favorites, now, now); err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return s.FindByID(ctx, user.ID)
}

// FindByEmail fetches a user by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return scanUser(s.db.QueryRowContext(ctx, query, email))
}

// FindByID fetches a user by id.
func (s *Store) FindByID(ctx context.Context, id string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return scanUser(s.db.QueryRowContext(ctx, query, id))
}

// SaveUser rewrites the mutable columns of an existing user.
func (s *Store) SaveUser(ctx context.Context, user models.User) (models.User, error) {
	favorites, err := encodeFavorites(user.FavoriteCountries)
	if err != nil {
		return models.User{}, err
	}

	query := `
		UPDATE users
		SET username = ?, email = ?, password_hash = ?, favorite_countries = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query, user.Username, user.Email, user.PasswordHash, favorites, time.Now().UTC(), user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("update user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return models.User{}, fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return models.User{}, storage.ErrNotFound
	}
	return s.FindByID(ctx, user.ID)
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func encodeFavorites(f models.Favorites) (string, error) {
	if f == nil {
		f = models.Favorites{}
	}
	raw, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("encode favorites: %w", err)
	}
	return string(raw), nil
}

func scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	var favorites string
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &favorites, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	if err := json.Unmarshal([]byte(favorites), &user.FavoriteCountries); err != nil {
		return models.User{}, fmt.Errorf("decode favorites: %w", err)
	}
	user.FavoriteCountries = user.FavoriteCountries.Dedupe()
	return user, nil
}
