package storage

import (
	"context"

	"github.com/Sladkolapy/Mishka/internal/models"
)

//go:generate moq -out chat_mock.go . ChatStorage

// ChatStorage defines interface for chat and message persistence.
// Все операции scoped по владельцу: чужой чат неотличим от несуществующего.
type ChatStorage interface {
	// CreateChat creates a new chat
	CreateChat(ctx context.Context, chat *models.Chat) error

	// GetChat retrieves chat by ID for the given owner
	// Returns ErrChatNotFound if chat doesn't exist or belongs to another user
	GetChat(ctx context.Context, userID, chatID string) (*models.Chat, error)

	// ListChats returns user's chats, most recently updated first
	ListChats(ctx context.Context, userID string) ([]models.Chat, error)

	// RenameChat updates the chat title
	RenameChat(ctx context.Context, userID, chatID, title string) error

	// TouchChat bumps updated_at
	TouchChat(ctx context.Context, chatID string) error

	// DeleteChat deletes the chat with its messages and file rows.
	// Пути файлов возвращаются вызывающему для удаления с диска.
	DeleteChat(ctx context.Context, userID, chatID string) (filePaths []string, err error)

	// CreateMessage appends a message to a chat
	CreateMessage(ctx context.Context, msg *models.Message) error

	// ListMessages returns chat messages in chronological order
	ListMessages(ctx context.Context, chatID string) ([]models.Message, error)

	// CountChats returns the total number of chats
	CountChats(ctx context.Context) (int64, error)

	// CountMessages returns the total number of messages
	CountMessages(ctx context.Context) (int64, error)
}
