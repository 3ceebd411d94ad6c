package storage

import (
	"context"

	"github.com/Sladkolapy/Mishka/internal/models"
)

//go:generate moq -out file_mock.go . FileStorage

// FileStorage defines interface for file metadata persistence
type FileStorage interface {
	// CreateFile records an uploaded or generated file
	CreateFile(ctx context.Context, file *models.File) error

	// GetFile retrieves file by ID for the given owner
	// Returns ErrFileNotFound if file doesn't exist or belongs to another user
	GetFile(ctx context.Context, userID, fileID string) (*models.File, error)

	// ListChatFiles returns files attached to a chat, newest first
	ListChatFiles(ctx context.Context, chatID string) ([]models.File, error)
}
