package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sladkolapy/Mishka/internal/models"
	"github.com/Sladkolapy/Mishka/internal/server/storage"
)

func createTestChat(t *testing.T, ctx context.Context, s *Storage, userID string) string {
	chatID := uuid.New().String()
	now := time.Now().UTC()
	chat := &models.Chat{
		ID:        chatID,
		UserID:    userID,
		Title:     "Test chat",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.CreateChat(ctx, chat))
	return chatID
}

func TestChatStorage_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s)
	chatID := createTestChat(t, ctx, s, userID)

	chat, err := s.GetChat(ctx, userID, chatID)
	require.NoError(t, err)
	assert.Equal(t, "Test chat", chat.Title)
	assert.Equal(t, userID, chat.UserID)
}

func TestChatStorage_GetChatWrongOwner(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	owner := createTestUser(t, ctx, s)
	other := createTestUser(t, ctx, s)
	chatID := createTestChat(t, ctx, s, owner)

	// чужой чат неотличим от несуществующего
	_, err := s.GetChat(ctx, other, chatID)
	assert.ErrorIs(t, err, storage.ErrChatNotFound)
}

func TestChatStorage_ListChatsOrder(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s)
	first := createTestChat(t, ctx, s, userID)
	second := createTestChat(t, ctx, s, userID)

	// обновление поднимает чат наверх списка
	require.NoError(t, s.TouchChat(ctx, first))

	chats, err := s.ListChats(ctx, userID)
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, first, chats[0].ID)
	assert.Equal(t, second, chats[1].ID)
}

func TestChatStorage_Rename(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s)
	chatID := createTestChat(t, ctx, s, userID)

	require.NoError(t, s.RenameChat(ctx, userID, chatID, "Chat: report.pdf"))

	chat, err := s.GetChat(ctx, userID, chatID)
	require.NoError(t, err)
	assert.Equal(t, "Chat: report.pdf", chat.Title)

	err = s.RenameChat(ctx, userID, uuid.New().String(), "nope")
	assert.ErrorIs(t, err, storage.ErrChatNotFound)
}

func TestChatStorage_Messages(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s)
	chatID := createTestChat(t, ctx, s, userID)

	fileID := uuid.New().String()
	fileName := "notes.txt"
	msgs := []*models.Message{
		{
			ID:        uuid.New().String(),
			ChatID:    chatID,
			Role:      models.RoleUser,
			Content:   "Uploaded file: notes.txt",
			FileID:    &fileID,
			FileName:  &fileName,
			CreatedAt: time.Now().UTC(),
		},
		{
			ID:        uuid.New().String(),
			ChatID:    chatID,
			Role:      models.RoleAssistant,
			Content:   "Got it",
			CreatedAt: time.Now().UTC().Add(time.Second),
		},
	}
	for _, m := range msgs {
		require.NoError(t, s.CreateMessage(ctx, m))
	}

	got, err := s.ListMessages(ctx, chatID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, models.RoleUser, got[0].Role)
	require.NotNil(t, got[0].FileID)
	assert.Equal(t, fileID, *got[0].FileID)
	require.NotNil(t, got[0].FileName)
	assert.Equal(t, "notes.txt", *got[0].FileName)

	assert.Equal(t, models.RoleAssistant, got[1].Role)
	assert.Nil(t, got[1].FileID)
}

func TestChatStorage_DeleteCascadesAndReturnsPaths(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s)
	chatID := createTestChat(t, ctx, s, userID)

	file := &models.File{
		ID:        uuid.New().String(),
		ChatID:    chatID,
		UserID:    userID,
		Filename:  "contract.pdf",
		FileType:  "pdf",
		Path:      "uploads/contract.pdf",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreateFile(ctx, file))

	msg := &models.Message{
		ID:        uuid.New().String(),
		ChatID:    chatID,
		Role:      models.RoleUser,
		Content:   "hello",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreateMessage(ctx, msg))

	paths, err := s.DeleteChat(ctx, userID, chatID)
	require.NoError(t, err)
	assert.Equal(t, []string{"uploads/contract.pdf"}, paths)

	_, err = s.GetChat(ctx, userID, chatID)
	assert.ErrorIs(t, err, storage.ErrChatNotFound)

	// каскад удалил сообщения и файлы
	messages, err := s.ListMessages(ctx, chatID)
	require.NoError(t, err)
	assert.Empty(t, messages)

	files, err := s.ListChatFiles(ctx, chatID)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestChatStorage_DeleteNotFound(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s)

	_, err := s.DeleteChat(ctx, userID, uuid.New().String())
	assert.ErrorIs(t, err, storage.ErrChatNotFound)
}

func TestChatStorage_Counts(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s)
	chatID := createTestChat(t, ctx, s, userID)

	msg := &models.Message{
		ID:        uuid.New().String(),
		ChatID:    chatID,
		Role:      models.RoleUser,
		Content:   "hi",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreateMessage(ctx, msg))

	chats, err := s.CountChats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), chats)

	messages, err := s.CountMessages(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), messages)
}
