package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Sladkolapy/Mishka/internal/models"
	"github.com/Sladkolapy/Mishka/internal/server/storage"
)

// CreateFile records an uploaded or generated file
func (s *Storage) CreateFile(ctx context.Context, file *models.File) error {
	query := `
		INSERT INTO files (id, chat_id, user_id, filename, file_type, path, extracted_content, is_generated, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		file.ID,
		file.ChatID,
		file.UserID,
		file.Filename,
		file.FileType,
		file.Path,
		file.ExtractedContent,
		file.IsGenerated,
		file.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert file: %w", err)
	}

	return nil
}

// GetFile retrieves file by ID for the given owner
func (s *Storage) GetFile(ctx context.Context, userID, fileID string) (*models.File, error) {
	query := `
		SELECT id, chat_id, user_id, filename, file_type, path, extracted_content, is_generated, created_at
		FROM files
		WHERE id = ? AND user_id = ?
	`

	file := &models.File{}
	err := s.db.QueryRowContext(ctx, query, fileID, userID).Scan(
		&file.ID,
		&file.ChatID,
		&file.UserID,
		&file.Filename,
		&file.FileType,
		&file.Path,
		&file.ExtractedContent,
		&file.IsGenerated,
		&file.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to get file: %w", err)
	}

	return file, nil
}

// ListChatFiles returns files attached to a chat, newest first
func (s *Storage) ListChatFiles(ctx context.Context, chatID string) ([]models.File, error) {
	query := `
		SELECT id, chat_id, user_id, filename, file_type, path, extracted_content, is_generated, created_at
		FROM files
		WHERE chat_id = ?
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	var files []models.File
	for rows.Next() {
		var file models.File
		if err := rows.Scan(
			&file.ID,
			&file.ChatID,
			&file.UserID,
			&file.Filename,
			&file.FileType,
			&file.Path,
			&file.ExtractedContent,
			&file.IsGenerated,
			&file.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate files: %w", err)
	}

	return files, nil
}
