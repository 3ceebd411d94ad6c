package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Sladkolapy/Mishka/internal/models"
	"github.com/Sladkolapy/Mishka/pkg/api"
)

// contextKey тип для ключей контекста запроса
type contextKey string

// Ключи контекста, заполняемые auth middleware
const (
	UserKey contextKey = "user"
)

// UserFromContext возвращает аутентифицированного пользователя запроса.
// Middleware гарантирует наличие для защищенных маршрутов.
func UserFromContext(r *http.Request) *models.User {
	user, _ := r.Context().Value(UserKey).(*models.User)
	return user
}

// sendJSON отправляет JSON ответ
func sendJSON(logger *slog.Logger, w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет ошибку в формате {"detail": "..."}
func sendError(logger *slog.Logger, w http.ResponseWriter, detail string, statusCode int) {
	sendJSON(logger, w, api.ErrorResponse{Detail: detail}, statusCode)
}

// toUserResponse конвертирует доменного пользователя в ответ API.
// PasswordHash наружу не отдается.
func toUserResponse(user *models.User) api.UserResponse {
	return api.UserResponse{
		CreatedAt: user.CreatedAt,
		ID:        user.ID,
		Email:     user.Email,
		Balance:   user.Balance,
		IsAdmin:   user.IsAdmin,
		IsBlocked: user.IsBlocked,
	}
}

func toChatResponse(chat *models.Chat) api.ChatResponse {
	return api.ChatResponse{
		CreatedAt: chat.CreatedAt,
		UpdatedAt: chat.UpdatedAt,
		ID:        chat.ID,
		UserID:    chat.UserID,
		Title:     chat.Title,
	}
}

func toMessageResponse(msg *models.Message) api.MessageResponse {
	return api.MessageResponse{
		CreatedAt: msg.CreatedAt,
		FileID:    msg.FileID,
		FileName:  msg.FileName,
		ID:        msg.ID,
		ChatID:    msg.ChatID,
		Role:      msg.Role,
		Content:   msg.Content,
	}
}

func toFileResponse(file *models.File) api.FileResponse {
	return api.FileResponse{
		CreatedAt:   file.CreatedAt,
		ID:          file.ID,
		Filename:    file.Filename,
		FileType:    file.FileType,
		IsGenerated: file.IsGenerated,
	}
}

func toPaymentResponse(req *models.PaymentRequest) api.PaymentRequestResponse {
	return api.PaymentRequestResponse{
		CreatedAt: req.CreatedAt,
		DecidedAt: req.DecidedAt,
		ID:        req.ID,
		UserID:    req.UserID,
		UserEmail: req.UserEmail,
		Status:    req.Status,
		Amount:    req.Amount,
	}
}

func toTransactionResponse(t *models.Transaction) api.TransactionResponse {
	return api.TransactionResponse{
		CreatedAt: t.CreatedAt,
		ID:        t.ID,
		Kind:      t.Kind,
		Comment:   t.Comment,
		Amount:    t.Amount,
	}
}
