package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/Sladkolapy/Mishka/internal/server/storage"
)

// FilesHandler обрабатывает скачивание файлов
type FilesHandler struct {
	logger      *slog.Logger
	fileStorage storage.FileStorage
}

// NewFilesHandler создает новый handler для файлов
func NewFilesHandler(logger *slog.Logger, fileStorage storage.FileStorage) *FilesHandler {
	return &FilesHandler{
		logger:      logger,
		fileStorage: fileStorage,
	}
}

// Download обрабатывает GET /api/files/{id}/download
// Отдает файл потоком с Content-Disposition
func (h *FilesHandler) Download(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := UserFromContext(r)
	fileID := mux.Vars(r)["id"]

	file, err := h.fileStorage.GetFile(ctx, user.ID, fileID)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			sendError(h.logger, w, "file not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get file", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	f, err := os.Open(file.Path)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to open file on disk",
			slog.String("path", file.Path), slog.Any("error", err))
		sendError(h.logger, w, "file content is missing", http.StatusNotFound)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))

	if _, err := io.Copy(w, f); err != nil {
		h.logger.WarnContext(ctx, "failed to stream file", slog.Any("error", err))
	}
}
