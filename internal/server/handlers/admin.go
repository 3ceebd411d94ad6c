package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Sladkolapy/Mishka/internal/models"
	"github.com/Sladkolapy/Mishka/internal/server/storage"
	"github.com/Sladkolapy/Mishka/pkg/api"
)

// AdminHandler обрабатывает админ-панель: статистика, пользователи, заявки
type AdminHandler struct {
	logger         *slog.Logger
	userStorage    storage.UserStorage
	chatStorage    storage.ChatStorage
	balanceStorage storage.BalanceStorage
	paymentStorage storage.PaymentStorage
}

// NewAdminHandler создает новый handler для админки
func NewAdminHandler(logger *slog.Logger, userStorage storage.UserStorage, chatStorage storage.ChatStorage, balanceStorage storage.BalanceStorage, paymentStorage storage.PaymentStorage) *AdminHandler {
	return &AdminHandler{
		logger:         logger,
		userStorage:    userStorage,
		chatStorage:    chatStorage,
		balanceStorage: balanceStorage,
		paymentStorage: paymentStorage,
	}
}

// Stats обрабатывает GET /api/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.userStorage.CountUsers(ctx)
	if err != nil {
		h.fail(w, "failed to count users", err)
		return
	}
	chats, err := h.chatStorage.CountChats(ctx)
	if err != nil {
		h.fail(w, "failed to count chats", err)
		return
	}
	messages, err := h.chatStorage.CountMessages(ctx)
	if err != nil {
		h.fail(w, "failed to count messages", err)
		return
	}
	pending, err := h.paymentStorage.CountPendingPayments(ctx)
	if err != nil {
		h.fail(w, "failed to count pending payments", err)
		return
	}

	resp := api.AdminStatsResponse{
		Users:           users,
		Chats:           chats,
		Messages:        messages,
		PendingPayments: pending,
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Users обрабатывает GET /api/admin/users
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.userStorage.ListUsers(ctx)
	if err != nil {
		h.fail(w, "failed to list users", err)
		return
	}

	resp := make([]api.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, toUserResponse(&users[i]))
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// UpdateUser обрабатывает PATCH /api/admin/users/{id}
// Поддерживается только смена is_blocked
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	admin := UserFromContext(r)
	userID := mux.Vars(r)["id"]

	var req api.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.IsBlocked == nil {
		sendError(h.logger, w, "is_blocked is required", http.StatusBadRequest)
		return
	}

	// Администратор не может заблокировать сам себя
	if userID == admin.ID && *req.IsBlocked {
		sendError(h.logger, w, "cannot block yourself", http.StatusBadRequest)
		return
	}

	if err := h.userStorage.SetBlocked(ctx, userID, *req.IsBlocked); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "user not found", http.StatusNotFound)
			return
		}
		h.fail(w, "failed to update user", err)
		return
	}

	user, err := h.userStorage.GetUserByID(ctx, userID)
	if err != nil {
		h.fail(w, "failed to reload user", err)
		return
	}

	h.logger.InfoContext(ctx, "user block status changed",
		slog.String("admin_id", admin.ID),
		slog.String("user_id", userID),
		slog.Bool("is_blocked", *req.IsBlocked))

	sendJSON(h.logger, w, toUserResponse(user), http.StatusOK)
}

// AddTokens обрабатывает POST /api/admin/users/{id}/add-tokens?amount=N
func (h *AdminHandler) AddTokens(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	admin := UserFromContext(r)
	userID := mux.Vars(r)["id"]

	amount, err := strconv.ParseInt(r.URL.Query().Get("amount"), 10, 64)
	if err != nil || amount <= 0 {
		sendError(h.logger, w, "amount must be a positive integer", http.StatusBadRequest)
		return
	}

	balance, err := h.balanceStorage.CreditBalance(ctx, userID, amount, "admin_grant",
		fmt.Sprintf("granted by admin %s", admin.Email))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "user not found", http.StatusNotFound)
			return
		}
		h.fail(w, "failed to credit balance", err)
		return
	}

	h.logger.InfoContext(ctx, "tokens granted",
		slog.String("admin_id", admin.ID),
		slog.String("user_id", userID),
		slog.Int64("amount", amount))

	sendJSON(h.logger, w, api.AddTokensResponse{NewBalance: balance}, http.StatusOK)
}

// Payments обрабатывает GET /api/admin/payments
func (h *AdminHandler) Payments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reqs, err := h.paymentStorage.ListPaymentRequests(ctx)
	if err != nil {
		h.fail(w, "failed to list payment requests", err)
		return
	}

	resp := make([]api.PaymentRequestResponse, 0, len(reqs))
	for i := range reqs {
		resp = append(resp, toPaymentResponse(&reqs[i]))
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// ApprovePayment обрабатывает POST /api/admin/payments/{id}/approve
// Подтверждает заявку и зачисляет токены
func (h *AdminHandler) ApprovePayment(w http.ResponseWriter, r *http.Request) {
	h.decidePayment(w, r, models.PaymentApproved)
}

// RejectPayment обрабатывает POST /api/admin/payments/{id}/reject
// Отклоняет заявку, баланс не меняется
func (h *AdminHandler) RejectPayment(w http.ResponseWriter, r *http.Request) {
	h.decidePayment(w, r, models.PaymentRejected)
}

func (h *AdminHandler) decidePayment(w http.ResponseWriter, r *http.Request, status string) {
	ctx := r.Context()
	admin := UserFromContext(r)
	requestID := mux.Vars(r)["id"]

	// Зачисление по approved происходит внутри DecidePaymentRequest,
	// в одной транзакции со сменой статуса
	payment, err := h.paymentStorage.DecidePaymentRequest(ctx, requestID, status, admin.ID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrPaymentNotFound):
			sendError(h.logger, w, "payment request not found", http.StatusNotFound)
		case errors.Is(err, storage.ErrPaymentDecided):
			sendError(h.logger, w, "payment request already decided", http.StatusConflict)
		default:
			h.fail(w, "failed to decide payment request", err)
		}
		return
	}

	h.logger.InfoContext(ctx, "payment request decided",
		slog.String("admin_id", admin.ID),
		slog.String("request_id", requestID),
		slog.String("status", status))

	sendJSON(h.logger, w, toPaymentResponse(payment), http.StatusOK)
}

func (h *AdminHandler) fail(w http.ResponseWriter, message string, err error) {
	h.logger.Error(message, slog.Any("error", err))
	sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
}
