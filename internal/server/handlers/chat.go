package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Sladkolapy/Mishka/internal/models"
	"github.com/Sladkolapy/Mishka/internal/server/assistant"
	"github.com/Sladkolapy/Mishka/internal/server/storage"
	"github.com/Sladkolapy/Mishka/internal/validation"
	"github.com/Sladkolapy/Mishka/pkg/api"
)

// Максимальный размер загружаемого файла
const maxUploadSize = 25 << 20 // 25 MB

// ChatHandler обрабатывает чаты, сообщения и файлы
type ChatHandler struct {
	logger         *slog.Logger
	chatStorage    storage.ChatStorage
	fileStorage    storage.FileStorage
	balanceStorage storage.BalanceStorage
	assistant      assistant.Assistant
	uploadDir      string
	generatedDir   string
	messageCost    int64
}

// NewChatHandler создает новый handler для чатов
func NewChatHandler(
	logger *slog.Logger,
	chatStorage storage.ChatStorage,
	fileStorage storage.FileStorage,
	balanceStorage storage.BalanceStorage,
	asst assistant.Assistant,
	uploadDir, generatedDir string,
	messageCost int64,
) *ChatHandler {
	return &ChatHandler{
		logger:         logger,
		chatStorage:    chatStorage,
		fileStorage:    fileStorage,
		balanceStorage: balanceStorage,
		assistant:      asst,
		uploadDir:      uploadDir,
		generatedDir:   generatedDir,
		messageCost:    messageCost,
	}
}

// CreateChat обрабатывает POST /api/chat
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := UserFromContext(r)

	var req api.ChatCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "New Chat"
	}

	now := time.Now().UTC()
	chat := &models.Chat{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.chatStorage.CreateChat(ctx, chat); err != nil {
		h.logger.ErrorContext(ctx, "failed to create chat", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "chat created",
		slog.String("chat_id", chat.ID),
		slog.String("user_id", user.ID))

	sendJSON(h.logger, w, toChatResponse(chat), http.StatusCreated)
}

// ListChats обрабатывает GET /api/chat
func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := UserFromContext(r)

	chats, err := h.chatStorage.ListChats(ctx, user.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list chats", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]api.ChatResponse, 0, len(chats))
	for i := range chats {
		resp = append(resp, toChatResponse(&chats[i]))
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// GetChat обрабатывает GET /api/chat/{id}
// Возвращает чат с сообщениями в хронологическом порядке и файлами
func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := UserFromContext(r)
	chatID := mux.Vars(r)["id"]

	chat, err := h.chatStorage.GetChat(ctx, user.ID, chatID)
	if err != nil {
		h.respondChatError(w, err)
		return
	}

	messages, err := h.chatStorage.ListMessages(ctx, chat.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list messages", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	files, err := h.fileStorage.ListChatFiles(ctx, chat.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list files", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.ChatDetailResponse{
		CreatedAt: chat.CreatedAt,
		UpdatedAt: chat.UpdatedAt,
		ID:        chat.ID,
		UserID:    chat.UserID,
		Title:     chat.Title,
		Messages:  make([]api.MessageResponse, 0, len(messages)),
		Files:     make([]api.FileResponse, 0, len(files)),
	}
	for i := range messages {
		resp.Messages = append(resp.Messages, toMessageResponse(&messages[i]))
	}
	for i := range files {
		resp.Files = append(resp.Files, toFileResponse(&files[i]))
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// DeleteChat обрабатывает DELETE /api/chat/{id}
// Удаляет чат каскадно вместе с сообщениями, файлами и содержимым на диске
func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := UserFromContext(r)
	chatID := mux.Vars(r)["id"]

	paths, err := h.chatStorage.DeleteChat(ctx, user.ID, chatID)
	if err != nil {
		h.respondChatError(w, err)
		return
	}

	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			h.logger.WarnContext(ctx, "failed to remove file from disk",
				slog.String("path", path), slog.Any("error", err))
		}
	}

	h.logger.InfoContext(ctx, "chat deleted",
		slog.String("chat_id", chatID),
		slog.String("user_id", user.ID),
		slog.Int("files_removed", len(paths)))

	sendJSON(h.logger, w, api.StatusResponse{Status: "deleted"}, http.StatusOK)
}

// SendMessage обрабатывает POST /api/chat/{id}/message
// Списывает стоимость сообщения до вызова ассистента, сохраняет сообщение
// пользователя и ответ ассистента. Ответ может содержать сгенерированный файл.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := UserFromContext(r)
	chatID := mux.Vars(r)["id"]

	var req api.MessageCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		sendError(h.logger, w, "message content is required", http.StatusBadRequest)
		return
	}

	chat, err := h.chatStorage.GetChat(ctx, user.ID, chatID)
	if err != nil {
		h.respondChatError(w, err)
		return
	}

	// Списываем до вызова ассистента
	if _, err := h.balanceStorage.DebitBalance(ctx, user.ID, h.messageCost, "message", "chat message"); err != nil {
		if errors.Is(err, storage.ErrInsufficientBalance) {
			sendError(h.logger, w, "insufficient balance", http.StatusPaymentRequired)
			return
		}
		h.logger.ErrorContext(ctx, "failed to debit balance", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	userMsg := &models.Message{
		ID:        uuid.New().String(),
		ChatID:    chat.ID,
		Role:      models.RoleUser,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.chatStorage.CreateMessage(ctx, userMsg); err != nil {
		h.logger.ErrorContext(ctx, "failed to save user message", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	reply, err := h.assistant.Reply(ctx, h.assistantRequest(ctx, chat, content))
	if err != nil {
		h.logger.ErrorContext(ctx, "assistant failed", slog.Any("error", err))
		sendError(h.logger, w, "assistant is unavailable, please try again", http.StatusInternalServerError)
		return
	}

	assistantMsg := &models.Message{
		ID:        uuid.New().String(),
		ChatID:    chat.ID,
		Role:      models.RoleAssistant,
		Content:   reply.Content,
		CreatedAt: time.Now().UTC(),
	}

	if reply.File != nil {
		file, err := h.saveGeneratedFile(ctx, chat, user.ID, reply.File)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to save generated file", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
			return
		}
		assistantMsg.FileID = &file.ID
		assistantMsg.FileName = &file.Filename
	}

	if err := h.chatStorage.CreateMessage(ctx, assistantMsg); err != nil {
		h.logger.ErrorContext(ctx, "failed to save assistant message", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.chatStorage.TouchChat(ctx, chat.ID); err != nil {
		h.logger.WarnContext(ctx, "failed to touch chat", slog.Any("error", err))
	}

	sendJSON(h.logger, w, toMessageResponse(assistantMsg), http.StatusOK)
}

// Upload обрабатывает POST /api/chat/{id}/upload
// Принимает multipart поле "file", проверяет расширение по allow-list,
// сохраняет на диск и создает сообщение пользователя о загрузке.
// Первая загрузка переименовывает чат в "Chat: <filename>".
func (h *ChatHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := UserFromContext(r)
	chatID := mux.Vars(r)["id"]

	chat, err := h.chatStorage.GetChat(ctx, user.ID, chatID)
	if err != nil {
		h.respondChatError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		sendError(h.logger, w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		sendError(h.logger, w, "file field is required", http.StatusBadRequest)
		return
	}
	defer part.Close()

	filename := filepath.Base(header.Filename)
	if err := validation.ValidateUploadFilename(filename); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	ext := validation.FileExt(filename)

	fileID := uuid.New().String()
	diskPath := filepath.Join(h.uploadDir, fileID+"_"+filename)

	dst, err := os.Create(diskPath)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create upload file", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if _, err := io.Copy(dst, part); err != nil {
		dst.Close()
		os.Remove(diskPath)
		h.logger.ErrorContext(ctx, "failed to write upload file", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}
	if err := dst.Close(); err != nil {
		h.logger.WarnContext(ctx, "failed to close upload file", slog.Any("error", err))
	}

	extracted := extractContent(ext, diskPath)

	file := &models.File{
		ID:               fileID,
		ChatID:           chat.ID,
		UserID:           user.ID,
		Filename:         filename,
		FileType:         ext,
		Path:             diskPath,
		ExtractedContent: extracted,
		CreatedAt:        time.Now().UTC(),
	}
	if err := h.fileStorage.CreateFile(ctx, file); err != nil {
		os.Remove(diskPath)
		h.logger.ErrorContext(ctx, "failed to save file record", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	msg := &models.Message{
		ID:        uuid.New().String(),
		ChatID:    chat.ID,
		Role:      models.RoleUser,
		Content:   fmt.Sprintf("Uploaded file: %s", filename),
		FileID:    &file.ID,
		FileName:  &file.Filename,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.chatStorage.CreateMessage(ctx, msg); err != nil {
		h.logger.ErrorContext(ctx, "failed to save upload message", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Первая загрузка дает чату осмысленное имя
	if chat.Title == "New Chat" {
		if err := h.chatStorage.RenameChat(ctx, user.ID, chat.ID, "Chat: "+filename); err != nil {
			h.logger.WarnContext(ctx, "failed to rename chat", slog.Any("error", err))
		}
	} else if err := h.chatStorage.TouchChat(ctx, chat.ID); err != nil {
		h.logger.WarnContext(ctx, "failed to touch chat", slog.Any("error", err))
	}

	h.logger.InfoContext(ctx, "file uploaded",
		slog.String("chat_id", chat.ID),
		slog.String("file_id", file.ID),
		slog.String("filename", filename))

	resp := api.UploadResponse{
		FileID:           file.ID,
		Filename:         file.Filename,
		FileType:         file.FileType,
		MessageID:        msg.ID,
		ExtractedPreview: excerptPreview(extracted),
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// assistantRequest собирает контекст чата для ассистента
func (h *ChatHandler) assistantRequest(ctx context.Context, chat *models.Chat, message string) assistant.Request {
	req := assistant.Request{
		ChatTitle: chat.Title,
		Message:   message,
	}

	files, err := h.fileStorage.ListChatFiles(ctx, chat.ID)
	if err != nil {
		h.logger.Warn("failed to load chat files for assistant", slog.Any("error", err))
		return req
	}

	for _, f := range files {
		if f.IsGenerated {
			continue
		}
		req.Documents = append(req.Documents, assistant.Document{
			Filename: f.Filename,
			Content:  f.ExtractedContent,
		})
	}

	return req
}

// saveGeneratedFile сохраняет сгенерированный ассистентом файл на диск и в БД
func (h *ChatHandler) saveGeneratedFile(ctx context.Context, chat *models.Chat, userID string, gen *assistant.GeneratedFile) (*models.File, error) {
	fileID := uuid.New().String()
	diskPath := filepath.Join(h.generatedDir, fileID+"_"+gen.Filename)

	if err := os.WriteFile(diskPath, gen.Content, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write generated file: %w", err)
	}

	file := &models.File{
		ID:          fileID,
		ChatID:      chat.ID,
		UserID:      userID,
		Filename:    gen.Filename,
		FileType:    gen.FileType,
		Path:        diskPath,
		IsGenerated: true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.fileStorage.CreateFile(ctx, file); err != nil {
		os.Remove(diskPath)
		return nil, fmt.Errorf("failed to save generated file record: %w", err)
	}

	return file, nil
}

func (h *ChatHandler) respondChatError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrChatNotFound) {
		sendError(h.logger, w, "chat not found", http.StatusNotFound)
		return
	}
	h.logger.Error("chat storage error", slog.Any("error", err))
	sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
}

// extractContent извлекает текст документа для контекста ассистента.
// Полноценный парсинг офисных форматов не выполняется: для txt содержимое
// читается как есть, для остальных сохраняется заглушка.
func extractContent(ext, path string) string {
	if ext == "txt" {
		data, err := os.ReadFile(path)
		if err != nil {
			return ""
		}
		// Ограничиваем размер извлеченного текста
		const maxExtracted = 64 << 10
		if len(data) > maxExtracted {
			data = data[:maxExtracted]
		}
		return string(data)
	}
	return fmt.Sprintf("(binary %s document: %s)", ext, filepath.Base(path))
}

func excerptPreview(s string) string {
	const previewLen = 200
	runes := []rune(s)
	if len(runes) <= previewLen {
		return s
	}
	return string(runes[:previewLen]) + "..."
}
