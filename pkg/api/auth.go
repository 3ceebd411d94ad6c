package api

import "time"

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	AgreeTerms bool   `json:"agree_terms"` // согласие с офертой, обязательно
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse представляет профиль пользователя, видимый клиенту
type UserResponse struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Balance   int64     `json:"balance"`
	IsAdmin   bool      `json:"is_admin"`
	IsBlocked bool      `json:"is_blocked"`
}

// TokenResponse представляет ответ с access token и профилем
type TokenResponse struct {
	AccessToken string       `json:"access_token"` // JWT access token
	TokenType   string       `json:"token_type"`   // всегда "bearer"
	User        UserResponse `json:"user"`
}

// ErrorResponse представляет ответ с ошибкой.
// Поле detail совпадает с форматом ошибок backend'а.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// LegalResponse представляет юридический документ (оферта, политика)
type LegalResponse struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
