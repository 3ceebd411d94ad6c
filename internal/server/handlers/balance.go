package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Sladkolapy/Mishka/internal/models"
	"github.com/Sladkolapy/Mishka/internal/server/config"
	"github.com/Sladkolapy/Mishka/internal/server/storage"
	"github.com/Sladkolapy/Mishka/pkg/api"
)

// BalanceHandler обрабатывает баланс, пополнения и заявки через СБП
type BalanceHandler struct {
	logger         *slog.Logger
	balanceStorage storage.BalanceStorage
	paymentStorage storage.PaymentStorage
	cfg            config.Config
}

// NewBalanceHandler создает новый handler для баланса
func NewBalanceHandler(logger *slog.Logger, balanceStorage storage.BalanceStorage, paymentStorage storage.PaymentStorage, cfg config.Config) *BalanceHandler {
	return &BalanceHandler{
		logger:         logger,
		balanceStorage: balanceStorage,
		paymentStorage: paymentStorage,
		cfg:            cfg,
	}
}

// Pricing обрабатывает GET /api/pricing
// Публичный эндпоинт со стоимостью действий
func (h *BalanceHandler) Pricing(w http.ResponseWriter, r *http.Request) {
	sendJSON(h.logger, w, api.PricingResponse{MessageCost: h.cfg.MessageCost}, http.StatusOK)
}

// History обрабатывает GET /api/balance/history
func (h *BalanceHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := UserFromContext(r)

	txs, err := h.balanceStorage.ListTransactions(ctx, user.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list transactions", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]api.TransactionResponse, 0, len(txs))
	for i := range txs {
		resp = append(resp, toTransactionResponse(&txs[i]))
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// TopUp обрабатывает POST /api/balance/topup
// Прямое пополнение: токены зачисляются синхронно
func (h *BalanceHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := UserFromContext(r)

	var req api.TopUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Amount < h.cfg.MinTopUp {
		sendError(h.logger, w, "top-up amount is below the minimum", http.StatusBadRequest)
		return
	}

	balance, err := h.balanceStorage.CreditBalance(ctx, user.ID, req.Amount, "topup", "direct top-up")
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to credit balance", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "balance topped up",
		slog.String("user_id", user.ID),
		slog.Int64("amount", req.Amount))

	sendJSON(h.logger, w, api.TopUpResponse{NewBalance: balance}, http.StatusOK)
}

// PaymentInfo обрабатывает GET /api/payment/info
// Публичные реквизиты для перевода по СБП
func (h *BalanceHandler) PaymentInfo(w http.ResponseWriter, r *http.Request) {
	resp := api.PaymentInfoResponse{
		Recipient: h.cfg.PaymentPerson,
		Phone:     h.cfg.PaymentPhone,
		Bank:      h.cfg.PaymentBank,
		Comment:   "Top-up for Mishka account",
		MinAmount: h.cfg.MinTopUp,
	}
	sendJSON(h.logger, w, resp, http.StatusOK)
}

// CreatePaymentRequest обрабатывает POST /api/payment/request
// Создает заявку на пополнение переводом. Баланс не меняется до решения
// администратора.
func (h *BalanceHandler) CreatePaymentRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := UserFromContext(r)

	var req api.PaymentRequestCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Amount < h.cfg.MinTopUp {
		sendError(h.logger, w, "top-up amount is below the minimum", http.StatusBadRequest)
		return
	}

	payment := &models.PaymentRequest{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		UserEmail: user.Email,
		Status:    models.PaymentPending,
		Amount:    req.Amount,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.paymentStorage.CreatePaymentRequest(ctx, payment); err != nil {
		h.logger.ErrorContext(ctx, "failed to create payment request", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "payment request created",
		slog.String("user_id", user.ID),
		slog.String("request_id", payment.ID),
		slog.Int64("amount", req.Amount))

	sendJSON(h.logger, w, toPaymentResponse(payment), http.StatusCreated)
}

// MyPaymentRequests обрабатывает GET /api/payment/my-requests
func (h *BalanceHandler) MyPaymentRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := UserFromContext(r)

	reqs, err := h.paymentStorage.ListUserPaymentRequests(ctx, user.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list payment requests", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]api.PaymentRequestResponse, 0, len(reqs))
	for i := range reqs {
		resp = append(resp, toPaymentResponse(&reqs[i]))
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}
