// Package repository provides database access for domain entities.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"paperless/internal/database"
	"paperless/internal/models"
	"paperless/internal/storage"
)

const userColumns = `id, COALESCE(google_id, ''), name, email, password_hash, profile_pic, created_at, last_login`

// UserRepository handles user database operations.
type UserRepository struct {
	db database.PGXDB
}

var _ storage.UserStore = (*UserRepository)(nil)

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db database.PGXDB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user. Returns storage.ErrAlreadyExists when
// the email (or Google id) is already taken.
func (r *UserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	var googleID any
	if user.GoogleID != "" {
		googleID = user.GoogleID
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (google_id, name, email, password_hash, profile_pic)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		googleID, user.Name, user.Email, user.PasswordHash, user.ProfilePic)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

// GetUserByID retrieves a user by primary key.
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email address.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// GetUserByGoogleID retrieves a user by external provider id.
func (r *UserRepository) GetUserByGoogleID(ctx context.Context, googleID string) (models.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE google_id = $1`, googleID)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, fmt.Errorf("failed to get user by google id: %w", err)
	}
	return user, nil
}

// TouchLastLogin records a successful login.
func (r *UserRepository) TouchLastLogin(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET last_login = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.GoogleID, &u.Name, &u.Email, &u.PasswordHash,
		&u.ProfilePic, &u.CreatedAt, &u.LastLogin)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}
