package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Sladkolapy/Mishka/internal/models"
	"github.com/Sladkolapy/Mishka/internal/server/storage"
)

func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors in tests
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

func testJWTConfig() JWTConfig {
	return JWTConfig{
		Secret:   []byte("test-secret"),
		TokenTTL: time.Hour,
	}
}

// withUser кладет пользователя в контекст запроса как auth middleware
func withUser(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), UserKey, user))
}

type mockUserStorage struct {
	users       map[string]*models.User // id -> User
	createError error
}

func newMockUserStorage() *mockUserStorage {
	return &mockUserStorage{users: make(map[string]*models.User)}
}

func (m *mockUserStorage) CreateUser(_ context.Context, user *models.User) error {
	if m.createError != nil {
		return m.createError
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return storage.ErrUserAlreadyExists
		}
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserStorage) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) GetUserByID(_ context.Context, userID string) (*models.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserStorage) ListUsers(_ context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUserStorage) SetBlocked(_ context.Context, userID string, blocked bool) error {
	u, ok := m.users[userID]
	if !ok {
		return storage.ErrUserNotFound
	}
	u.IsBlocked = blocked
	return nil
}

func (m *mockUserStorage) CountUsers(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

type mockBalanceStorage struct {
	balances  map[string]int64
	txs       []models.Transaction
	creditErr error
	debitErr  error
}

func newMockBalanceStorage() *mockBalanceStorage {
	return &mockBalanceStorage{balances: make(map[string]int64)}
}

func (m *mockBalanceStorage) CreditBalance(_ context.Context, userID string, amount int64, kind, comment string) (int64, error) {
	if m.creditErr != nil {
		return 0, m.creditErr
	}
	m.balances[userID] += amount
	m.txs = append(m.txs, models.Transaction{
		ID:        uuid.New().String(),
		UserID:    userID,
		Kind:      kind,
		Comment:   comment,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	})
	return m.balances[userID], nil
}

func (m *mockBalanceStorage) DebitBalance(_ context.Context, userID string, amount int64, kind, comment string) (int64, error) {
	if m.debitErr != nil {
		return 0, m.debitErr
	}
	if m.balances[userID] < amount {
		return 0, storage.ErrInsufficientBalance
	}
	m.balances[userID] -= amount
	m.txs = append(m.txs, models.Transaction{
		ID:        uuid.New().String(),
		UserID:    userID,
		Kind:      kind,
		Comment:   comment,
		Amount:    -amount,
		CreatedAt: time.Now().UTC(),
	})
	return m.balances[userID], nil
}

func (m *mockBalanceStorage) ListTransactions(_ context.Context, userID string) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, tx := range m.txs {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

type mockChatStorage struct {
	chats    map[string]*models.Chat
	messages []models.Message
}

func newMockChatStorage() *mockChatStorage {
	return &mockChatStorage{chats: make(map[string]*models.Chat)}
}

func (m *mockChatStorage) CreateChat(_ context.Context, chat *models.Chat) error {
	cp := *chat
	m.chats[chat.ID] = &cp
	return nil
}

func (m *mockChatStorage) GetChat(_ context.Context, userID, chatID string) (*models.Chat, error) {
	c, ok := m.chats[chatID]
	if !ok || c.UserID != userID {
		return nil, storage.ErrChatNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockChatStorage) ListChats(_ context.Context, userID string) ([]models.Chat, error) {
	var out []models.Chat
	for _, c := range m.chats {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockChatStorage) RenameChat(_ context.Context, userID, chatID, title string) error {
	c, ok := m.chats[chatID]
	if !ok || c.UserID != userID {
		return storage.ErrChatNotFound
	}
	c.Title = title
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *mockChatStorage) TouchChat(_ context.Context, chatID string) error {
	if c, ok := m.chats[chatID]; ok {
		c.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (m *mockChatStorage) DeleteChat(_ context.Context, userID, chatID string) ([]string, error) {
	c, ok := m.chats[chatID]
	if !ok || c.UserID != userID {
		return nil, storage.ErrChatNotFound
	}
	delete(m.chats, chatID)

	kept := m.messages[:0]
	for _, msg := range m.messages {
		if msg.ChatID != chatID {
			kept = append(kept, msg)
		}
	}
	m.messages = kept
	return nil, nil
}

func (m *mockChatStorage) CreateMessage(_ context.Context, msg *models.Message) error {
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *mockChatStorage) ListMessages(_ context.Context, chatID string) ([]models.Message, error) {
	var out []models.Message
	for _, msg := range m.messages {
		if msg.ChatID == chatID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockChatStorage) CountChats(_ context.Context) (int64, error) {
	return int64(len(m.chats)), nil
}

func (m *mockChatStorage) CountMessages(_ context.Context) (int64, error) {
	return int64(len(m.messages)), nil
}

type mockFileStorage struct {
	files map[string]*models.File
}

func newMockFileStorage() *mockFileStorage {
	return &mockFileStorage{files: make(map[string]*models.File)}
}

func (m *mockFileStorage) CreateFile(_ context.Context, file *models.File) error {
	cp := *file
	m.files[file.ID] = &cp
	return nil
}

func (m *mockFileStorage) GetFile(_ context.Context, userID, fileID string) (*models.File, error) {
	f, ok := m.files[fileID]
	if !ok || f.UserID != userID {
		return nil, storage.ErrFileNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *mockFileStorage) ListChatFiles(_ context.Context, chatID string) ([]models.File, error) {
	var out []models.File
	for _, f := range m.files {
		if f.ChatID == chatID {
			out = append(out, *f)
		}
	}
	return out, nil
}

type mockPaymentStorage struct {
	requests map[string]*models.PaymentRequest
	balances *mockBalanceStorage
}

func newMockPaymentStorage(balances *mockBalanceStorage) *mockPaymentStorage {
	return &mockPaymentStorage{
		requests: make(map[string]*models.PaymentRequest),
		balances: balances,
	}
}

func (m *mockPaymentStorage) CreatePaymentRequest(_ context.Context, req *models.PaymentRequest) error {
	cp := *req
	m.requests[req.ID] = &cp
	return nil
}

func (m *mockPaymentStorage) GetPaymentRequest(_ context.Context, requestID string) (*models.PaymentRequest, error) {
	r, ok := m.requests[requestID]
	if !ok {
		return nil, storage.ErrPaymentNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockPaymentStorage) ListUserPaymentRequests(_ context.Context, userID string) ([]models.PaymentRequest, error) {
	var out []models.PaymentRequest
	for _, r := range m.requests {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockPaymentStorage) ListPaymentRequests(_ context.Context) ([]models.PaymentRequest, error) {
	var out []models.PaymentRequest
	for _, r := range m.requests {
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockPaymentStorage) DecidePaymentRequest(ctx context.Context, requestID, status, decidedBy string) (*models.PaymentRequest, error) {
	r, ok := m.requests[requestID]
	if !ok {
		return nil, storage.ErrPaymentNotFound
	}
	if r.Status != models.PaymentPending {
		return nil, storage.ErrPaymentDecided
	}
	// Как в sqlite: неудачное зачисление оставляет заявку pending
	if status == models.PaymentApproved {
		comment := fmt.Sprintf("payment request %s approved", requestID)
		if _, err := m.balances.CreditBalance(ctx, r.UserID, r.Amount, "payment_approved", comment); err != nil {
			return nil, err
		}
	}
	now := time.Now().UTC()
	r.Status = status
	r.DecidedBy = decidedBy
	r.DecidedAt = &now
	cp := *r
	return &cp, nil
}

func (m *mockPaymentStorage) CountPendingPayments(_ context.Context) (int64, error) {
	var count int64
	for _, r := range m.requests {
		if r.Status == models.PaymentPending {
			count++
		}
	}
	return count, nil
}
