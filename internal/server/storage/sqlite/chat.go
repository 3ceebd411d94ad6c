package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Sladkolapy/Mishka/internal/models"
	"github.com/Sladkolapy/Mishka/internal/server/storage"
)

// CreateChat creates a new chat
func (s *Storage) CreateChat(ctx context.Context, chat *models.Chat) error {
	query := `
		INSERT INTO chats (id, user_id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		chat.ID,
		chat.UserID,
		chat.Title,
		chat.CreatedAt,
		chat.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert chat: %w", err)
	}

	return nil
}

// GetChat retrieves chat by ID for the given owner
func (s *Storage) GetChat(ctx context.Context, userID, chatID string) (*models.Chat, error) {
	query := `
		SELECT id, user_id, title, created_at, updated_at
		FROM chats
		WHERE id = ? AND user_id = ?
	`

	chat := &models.Chat{}
	err := s.db.QueryRowContext(ctx, query, chatID, userID).Scan(
		&chat.ID,
		&chat.UserID,
		&chat.Title,
		&chat.CreatedAt,
		&chat.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrChatNotFound
		}
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}

	return chat, nil
}

// ListChats returns user's chats, most recently updated first
func (s *Storage) ListChats(ctx context.Context, userID string) ([]models.Chat, error) {
	query := `
		SELECT id, user_id, title, created_at, updated_at
		FROM chats
		WHERE user_id = ?
		ORDER BY updated_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	defer rows.Close()

	var chats []models.Chat
	for rows.Next() {
		var chat models.Chat
		if err := rows.Scan(
			&chat.ID,
			&chat.UserID,
			&chat.Title,
			&chat.CreatedAt,
			&chat.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chat: %w", err)
		}
		chats = append(chats, chat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chats: %w", err)
	}

	return chats, nil
}

// RenameChat updates the chat title
func (s *Storage) RenameChat(ctx context.Context, userID, chatID, title string) error {
	query := `UPDATE chats SET title = ?, updated_at = ? WHERE id = ? AND user_id = ?`

	result, err := s.db.ExecContext(ctx, query, title, time.Now().UTC(), chatID, userID)
	if err != nil {
		return fmt.Errorf("failed to rename chat: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrChatNotFound
	}

	return nil
}

// TouchChat bumps updated_at
func (s *Storage) TouchChat(ctx context.Context, chatID string) error {
	query := `UPDATE chats SET updated_at = ? WHERE id = ?`

	if _, err := s.db.ExecContext(ctx, query, time.Now().UTC(), chatID); err != nil {
		return fmt.Errorf("failed to touch chat: %w", err)
	}

	return nil
}

// DeleteChat deletes the chat with its messages and file rows.
// Возвращает пути файлов чата для удаления с диска.
func (s *Storage) DeleteChat(ctx context.Context, userID, chatID string) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback после commit безвреден

	rows, err := tx.QueryContext(ctx, `SELECT path FROM files WHERE chat_id = ?`, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat files: %w", err)
	}

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan file path: %w", err)
		}
		paths = append(paths, path)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate file paths: %w", err)
	}
	rows.Close()

	// Каскад в схеме удалит messages и files вместе с чатом
	result, err := tx.ExecContext(ctx, `DELETE FROM chats WHERE id = ? AND user_id = ?`, chatID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete chat: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, storage.ErrChatNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit tx: %w", err)
	}

	return paths, nil
}

// CreateMessage appends a message to a chat
func (s *Storage) CreateMessage(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (id, chat_id, role, content, file_id, file_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		msg.ID,
		msg.ChatID,
		msg.Role,
		msg.Content,
		msg.FileID,
		msg.FileName,
		msg.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	return nil
}

// ListMessages returns chat messages in chronological order
func (s *Storage) ListMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	query := `
		SELECT id, chat_id, role, content, file_id, file_name, created_at
		FROM messages
		WHERE chat_id = ?
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		var fileID, fileName sql.NullString
		if err := rows.Scan(
			&msg.ID,
			&msg.ChatID,
			&msg.Role,
			&msg.Content,
			&fileID,
			&fileName,
			&msg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		if fileID.Valid {
			msg.FileID = &fileID.String
		}
		if fileName.Valid {
			msg.FileName = &fileName.String
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}

// CountChats returns the total number of chats
func (s *Storage) CountChats(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chats`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count chats: %w", err)
	}
	return count, nil
}

// CountMessages returns the total number of messages
func (s *Storage) CountMessages(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}
