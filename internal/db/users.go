package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateUser inserts a new user and returns its ID. The password is set in a
// separate step so registration and migration share one code path.
func (db *DB) CreateUser(ctx context.Context, name, email, phone string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, phone)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		name, strings.ToLower(email), phone,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// GetUser retrieves a user by ID. Returns (nil, nil) when no row exists.
func (db *DB) GetUser(ctx context.Context, userID uuid.UUID) (*User, error) {
	var user User
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, email, COALESCE(phone, ''), COALESCE(password_hash, ''), password_set, created_at, updated_at
		 FROM users WHERE id = $1`,
		userID,
	).Scan(&user.ID, &user.Name, &user.Email, &user.Phone, &user.PasswordHash, &user.PasswordSet, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively. Returns
// (nil, nil) when no row exists.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, email, COALESCE(phone, ''), COALESCE(password_hash, ''), password_set, created_at, updated_at
		 FROM users WHERE LOWER(email) = LOWER($1)`,
		email,
	).Scan(&user.ID, &user.Name, &user.Email, &user.Phone, &user.PasswordHash, &user.PasswordSet, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// CheckEmailExists reports whether a user with this email already exists,
// case-insensitively.
func (db *DB) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`,
		email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// DeleteUser removes a user account. Resumes cascade via the foreign key.
func (db *DB) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}
	return nil
}

// UpdatePassword stores a new password hash and marks the password as set.
func (db *DB) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1, password_set = TRUE, updated_at = NOW() WHERE id = $2`,
		passwordHash, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}
	return nil
}
