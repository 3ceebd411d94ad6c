package storage

import (
	"context"

	"github.com/Sladkolapy/Mishka/internal/models"
)

//go:generate moq -out user_mock.go . UserStorage

// UserStorage defines interface for user data persistence
type UserStorage interface {
	// CreateUser creates a new user in the storage
	// Returns ErrUserAlreadyExists if email is taken
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves user by email
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// ListUsers returns all users ordered by registration time
	ListUsers(ctx context.Context) ([]models.User, error)

	// SetBlocked updates the is_blocked flag
	// Returns ErrUserNotFound if user doesn't exist
	SetBlocked(ctx context.Context, userID string, blocked bool) error

	// CountUsers returns the total number of users
	CountUsers(ctx context.Context) (int64, error)
}
