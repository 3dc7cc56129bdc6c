package repository

import (
	"database/sql"
	"fmt"
	"time"

	"cartshare/internal/database"
	"cartshare/internal/models"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user record
func (r *UserRepository) CreateUser(username, email string) (*models.User, error) {
	query := "INSERT INTO users (username, email) VALUES (?, ?)"
	id, err := r.db.ExecReturningID(query, username, email)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &models.User{
		ID:        id,
		Username:  username,
		Email:     email,
		CreatedAt: time.Now(),
	}, nil
}

// GetUserByID retrieves a user by ID, or nil if no such user exists
func (r *UserRepository) GetUserByID(userID int64) (*models.User, error) {
	query := "SELECT id, username, email, created_at FROM users WHERE id = ?"

	user := &models.User{}
	err := r.db.QueryRow(query, userID).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetUserByUsername retrieves a user by username, or nil if no such user exists
func (r *UserRepository) GetUserByUsername(username string) (*models.User, error) {
	query := "SELECT id, username, email, created_at FROM users WHERE username = ?"

	user := &models.User{}
	err := r.db.QueryRow(query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}
