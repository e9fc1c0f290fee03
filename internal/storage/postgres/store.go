package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3/database"

	"github.com/hongminglow/countries-be/internal/models"
	"github.com/hongminglow/countries-be/internal/storage"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const uniqueViolation = "23505"

// Ensure Store satisfies the storage.UserStore interface at compile time.
var _ storage.UserStore = (*Store)(nil)

// Store provides Postgres-backed persistence for users.
type Store struct {
	pool *pgxpool.Pool
}

// NewUserStore creates a new Store and runs migrations.
func NewUserStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	// goose needs database/sql; use a short-lived handle from the same connection settings.
	db := stdlib.OpenDB(*s.pool.Config().ConnConfig)
	defer db.Close()
	return storage.Migrate(ctx, db, database.DialectPostgres, fsys)
}

const userColumns = `id::text, username, email, password_hash, favorite_countries, created_at, updated_at`

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	query := `
		INSERT INTO users (id, username, email, password_hash, favorite_countries, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING ` + userColumns
	now := time.Now().UTC()
	row := s.pool.QueryRow(ctx, query, user.ID, user.Username, user.Email, user.PasswordHash, favoritesParam(user.FavoriteCountries), now)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// FindByEmail fetches a user by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(s.pool.QueryRow(ctx, query, email))
}

// FindByID fetches a user by id. Ids that are not valid UUIDs report storage.ErrNotFound.
func (s *Store) FindByID(ctx context.Context, id string) (models.User, error) {
	uid, err := parseID(id)
	if err != nil {
		return models.User{}, err
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.pool.QueryRow(ctx, query, uid))
}

// SaveUser rewrites the mutable columns of an existing user.
func (s *Store) SaveUser(ctx context.Context, user models.User) (models.User, error) {
	uid, err := parseID(user.ID)
	if err != nil {
		return models.User{}, err
	}
	query := `
		UPDATE users
		SET username = $2, email = $3, password_hash = $4, favorite_countries = $5, updated_at = $6
		WHERE id = $1
		RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, uid, user.Username, user.Email, user.PasswordHash, favoritesParam(user.FavoriteCountries), time.Now().UTC())
	saved, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return saved, nil
}

func parseID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.UUID{}, storage.ErrNotFound
	}
	return uid, nil
}

func favoritesParam(f models.Favorites) []string {
	if f == nil {
		return []string{}
	}
	return []string(f)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	var favorites []string
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &favorites, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	user.FavoriteCountries = models.Favorites(favorites).Dedupe()
	return user, nil
}
