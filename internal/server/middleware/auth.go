package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Sladkolapy/Mishka/internal/server/handlers"
	"github.com/Sladkolapy/Mishka/internal/server/storage"
)

// AuthMiddleware создает middleware для проверки JWT токена.
// Пользователь загружается из хранилища на каждый запрос: блокировка
// и актуальный баланс видны сразу, без ожидания истечения токена.
func AuthMiddleware(logger *slog.Logger, jwtConfig handlers.JWTConfig, users storage.UserStorage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Извлекаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Missing Authorization header")
				sendDetail(w, "not authenticated", http.StatusUnauthorized)
				return
			}

			// Ожидаем формат: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Warn("Invalid Authorization header format")
				sendDetail(w, "invalid token format", http.StatusUnauthorized)
				return
			}

			claims, err := handlers.ValidateAccessToken(jwtConfig, parts[1])
			if err != nil {
				logger.Warn("Invalid access token", "error", err)
				sendDetail(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			user, err := users.GetUserByID(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, storage.ErrUserNotFound) {
					logger.Warn("Token references missing user", "user_id", claims.UserID)
					sendDetail(w, "invalid or expired token", http.StatusUnauthorized)
					return
				}
				logger.Error("Failed to load user", "error", err)
				sendDetail(w, "internal server error", http.StatusInternalServerError)
				return
			}

			if user.IsBlocked {
				logger.Warn("Blocked user rejected", "user_id", user.ID)
				sendDetail(w, "account is blocked", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), handlers.UserKey, user)

			logger.Debug("User authenticated", "user_id", user.ID, "email", user.Email)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sendDetail пишет ошибку в формате {"detail": "..."}
func sendDetail(w http.ResponseWriter, detail string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(`{"detail":"` + detail + `"}`))
}
