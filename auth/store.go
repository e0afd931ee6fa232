package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/courseboard-go/apperror"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// ErrUserNotFound is returned by store lookups when no account matches.
var ErrUserNotFound = errors.New("user not found")

// UserStore is the persistence boundary for accounts. The concrete store owns
// uniqueness enforcement and write atomicity.
type UserStore interface {
	// Create persists a new user and returns it with its assigned ID.
	Create(ctx context.Context, user *User) (*User, error)
	// ByUsername returns the user with the given username, or ErrUserNotFound.
	ByUsername(ctx context.Context, username string) (*User, error)
	// ByID returns the user with the given ID, or ErrUserNotFound.
	ByID(ctx context.Context, id int) (*User, error)
}

// PostgresUserStore implements UserStore over a pgx connection pool.
type PostgresUserStore struct {
	db *pgxpool.Pool
}

// NewPostgresUserStore creates a PostgresUserStore.
func NewPostgresUserStore(db *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) Create(ctx context.Context, user *User) (*User, error) {
	query := `
		INSERT INTO users (first_name, last_name, email, username, password, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := s.db.QueryRow(ctx, query,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Username,
		user.HashedPassword,
		user.IsAdmin,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "username") {
				return nil, apperror.NewConflictError("username already exists", nil)
			}
			if strings.Contains(pgErr.ConstraintName, "email") {
				return nil, apperror.NewConflictError("email already exists", nil)
			}
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	return user, nil
}

func (s *PostgresUserStore) ByUsername(ctx context.Context, username string) (*User, error) {
	return s.queryOne(ctx, `
		SELECT id, first_name, last_name, email, username, password, is_admin, created_at
		FROM users
		WHERE username = $1
	`, username)
}

func (s *PostgresUserStore) ByID(ctx context.Context, id int) (*User, error) {
	return s.queryOne(ctx, `
		SELECT id, first_name, last_name, email, username, password, is_admin, created_at
		FROM users
		WHERE id = $1
	`, id)
}

func (s *PostgresUserStore) queryOne(ctx context.Context, query string, arg interface{}) (*User, error) {
	var user User
	err := s.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Username,
		&user.HashedPassword,
		&user.IsAdmin,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, apperror.NewDatabaseError("failed to query user", err)
	}
	return &user, nil
}
