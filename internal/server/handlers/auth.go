package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Sladkolapy/Mishka/internal/models"
	"github.com/Sladkolapy/Mishka/internal/server/storage"
	"github.com/Sladkolapy/Mishka/internal/validation"
	"github.com/Sladkolapy/Mishka/pkg/api"
)

// AuthHandler обрабатывает запросы регистрации и аутентификации
type AuthHandler struct {
	logger          *slog.Logger
	userStorage     storage.UserStorage
	balanceStorage  storage.BalanceStorage
	jwtConfig       JWTConfig
	adminEmail      string
	startingBalance int64
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, userStorage storage.UserStorage, balanceStorage storage.BalanceStorage, jwtConfig JWTConfig, adminEmail string, startingBalance int64) *AuthHandler {
	return &AuthHandler{
		logger:          logger,
		userStorage:     userStorage,
		balanceStorage:  balanceStorage,
		jwtConfig:       jwtConfig,
		adminEmail:      adminEmail,
		startingBalance: startingBalance,
	}
}

// Register обрабатывает POST /api/auth/register
// Регистрация нового пользователя. Требует явного согласия с офертой.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode register request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if !req.AgreeTerms {
		sendError(h.logger, w, "you must accept the terms of service", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: string(hash),
		// Бутстрап админки: аккаунт из ADMIN_EMAIL регистрируется админом
		IsAdmin:   h.adminEmail != "" && req.Email == h.adminEmail,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.userStorage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			h.logger.WarnContext(ctx, "user already exists", slog.String("email", req.Email))
			sendError(h.logger, w, "email already registered", http.StatusConflict)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Стартовый бонус новым пользователям
	if h.startingBalance > 0 {
		balance, err := h.balanceStorage.CreditBalance(ctx, user.ID, h.startingBalance, "signup_bonus", "welcome bonus")
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to credit signup bonus", slog.Any("error", err))
		} else {
			user.Balance = balance
		}
	}

	h.logger.InfoContext(ctx, "user registered successfully",
		slog.String("email", req.Email),
		slog.String("user_id", user.ID))

	h.sendToken(w, user, http.StatusCreated)
}

// Login обрабатывает POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode login request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.userStorage.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.WarnContext(ctx, "login failed: user not found", slog.String("email", req.Email))
			sendError(h.logger, w, "invalid email or password", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.logger.WarnContext(ctx, "login failed: invalid password", slog.String("email", req.Email))
		sendError(h.logger, w, "invalid email or password", http.StatusUnauthorized)
		return
	}

	if user.IsBlocked {
		h.logger.WarnContext(ctx, "login failed: user blocked", slog.String("email", req.Email))
		sendError(h.logger, w, "account is blocked", http.StatusForbidden)
		return
	}

	h.logger.InfoContext(ctx, "user logged in successfully",
		slog.String("email", req.Email),
		slog.String("user_id", user.ID))

	h.sendToken(w, user, http.StatusOK)
}

// Me обрабатывает GET /api/auth/me
// Возвращает профиль аутентифицированного пользователя
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r)
	sendJSON(h.logger, w, toUserResponse(user), http.StatusOK)
}

func (h *AuthHandler) sendToken(w http.ResponseWriter, user *models.User, statusCode int) {
	token, err := GenerateAccessToken(h.jwtConfig, user.ID, user.Email)
	if err != nil {
		h.logger.Error("failed to generate access token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        toUserResponse(user),
	}

	sendJSON(h.logger, w, resp, statusCode)
}
