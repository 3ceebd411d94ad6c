package controller

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Sladkolapy/Mishka/internal/client/session"
	"github.com/Sladkolapy/Mishka/internal/client/storage"
	"github.com/Sladkolapy/Mishka/pkg/api"
)

// fakeGateway реализует Gateway через подменяемые функции и считает
// вызовы: тесты проверяют и результат, и что сетевого вызова не было.
type fakeGateway struct {
	calls map[string]int

	createChatFunc           func(ctx context.Context, req api.ChatCreateRequest) (*api.ChatResponse, error)
	listChatsFunc            func(ctx context.Context) ([]api.ChatResponse, error)
	getChatFunc              func(ctx context.Context, chatID string) (*api.ChatDetailResponse, error)
	deleteChatFunc           func(ctx context.Context, chatID string) error
	sendMessageFunc          func(ctx context.Context, chatID string, req api.MessageCreateRequest) (*api.MessageResponse, error)
	uploadFileFunc           func(ctx context.Context, chatID, filename string, content io.Reader) (*api.UploadResponse, error)
	pricingFunc              func(ctx context.Context) (*api.PricingResponse, error)
	balanceHistoryFunc       func(ctx context.Context) ([]api.TransactionResponse, error)
	topUpFunc                func(ctx context.Context, req api.TopUpRequest) (*api.TopUpResponse, error)
	paymentInfoFunc          func(ctx context.Context) (*api.PaymentInfoResponse, error)
	createPaymentRequestFunc func(ctx context.Context, req api.PaymentRequestCreate) (*api.PaymentRequestResponse, error)
	myPaymentRequestsFunc    func(ctx context.Context) ([]api.PaymentRequestResponse, error)
	adminStatsFunc           func(ctx context.Context) (*api.AdminStatsResponse, error)
	adminUsersFunc           func(ctx context.Context) ([]api.UserResponse, error)
	adminPaymentsFunc        func(ctx context.Context) ([]api.PaymentRequestResponse, error)
	adminSetBlockedFunc      func(ctx context.Context, userID string, blocked bool) (*api.UserResponse, error)
	adminAddTokensFunc       func(ctx context.Context, userID string, amount int64) (*api.AddTokensResponse, error)
	adminApprovePaymentFunc  func(ctx context.Context, requestID string) (*api.PaymentRequestResponse, error)
	adminRejectPaymentFunc   func(ctx context.Context, requestID string) (*api.PaymentRequestResponse, error)
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{calls: make(map[string]int)}
}

func (g *fakeGateway) record(name string) {
	g.calls[name]++
}

func (g *fakeGateway) CreateChat(ctx context.Context, req api.ChatCreateRequest) (*api.ChatResponse, error) {
	g.record("CreateChat")
	if g.createChatFunc == nil {
		return nil, fmt.Errorf("unexpected call to CreateChat")
	}
	return g.createChatFunc(ctx, req)
}

func (g *fakeGateway) ListChats(ctx context.Context) ([]api.ChatResponse, error) {
	g.record("ListChats")
	if g.listChatsFunc == nil {
		return nil, fmt.Errorf("unexpected call to ListChats")
	}
	return g.listChatsFunc(ctx)
}

func (g *fakeGateway) GetChat(ctx context.Context, chatID string) (*api.ChatDetailResponse, error) {
	g.record("GetChat")
	if g.getChatFunc == nil {
		return nil, fmt.Errorf("unexpected call to GetChat")
	}
	return g.getChatFunc(ctx, chatID)
}

func (g *fakeGateway) DeleteChat(ctx context.Context, chatID string) error {
	g.record("DeleteChat")
	if g.deleteChatFunc == nil {
		return fmt.Errorf("unexpected call to DeleteChat")
	}
	return g.deleteChatFunc(ctx, chatID)
}

func (g *fakeGateway) SendMessage(ctx context.Context, chatID string, req api.MessageCreateRequest) (*api.MessageResponse, error) {
	g.record("SendMessage")
	if g.sendMessageFunc == nil {
		return nil, fmt.Errorf("unexpected call to SendMessage")
	}
	return g.sendMessageFunc(ctx, chatID, req)
}

func (g *fakeGateway) UploadFile(ctx context.Context, chatID, filename string, content io.Reader) (*api.UploadResponse, error) {
	g.record("UploadFile")
	if g.uploadFileFunc == nil {
		return nil, fmt.Errorf("unexpected call to UploadFile")
	}
	return g.uploadFileFunc(ctx, chatID, filename, content)
}

func (g *fakeGateway) Pricing(ctx context.Context) (*api.PricingResponse, error) {
	g.record("Pricing")
	if g.pricingFunc == nil {
		return nil, fmt.Errorf("unexpected call to Pricing")
	}
	return g.pricingFunc(ctx)
}

func (g *fakeGateway) BalanceHistory(ctx context.Context) ([]api.TransactionResponse, error) {
	g.record("BalanceHistory")
	if g.balanceHistoryFunc == nil {
		return nil, fmt.Errorf("unexpected call to BalanceHistory")
	}
	return g.balanceHistoryFunc(ctx)
}

func (g *fakeGateway) TopUp(ctx context.Context, req api.TopUpRequest) (*api.TopUpResponse, error) {
	g.record("TopUp")
	if g.topUpFunc == nil {
		return nil, fmt.Errorf("unexpected call to TopUp")
	}
	return g.topUpFunc(ctx, req)
}

func (g *fakeGateway) PaymentInfo(ctx context.Context) (*api.PaymentInfoResponse, error) {
	g.record("PaymentInfo")
	if g.paymentInfoFunc == nil {
		return nil, fmt.Errorf("unexpected call to PaymentInfo")
	}
	return g.paymentInfoFunc(ctx)
}

func (g *fakeGateway) CreatePaymentRequest(ctx context.Context, req api.PaymentRequestCreate) (*api.PaymentRequestResponse, error) {
	g.record("CreatePaymentRequest")
	if g.createPaymentRequestFunc == nil {
		return nil, fmt.Errorf("unexpected call to CreatePaymentRequest")
	}
	return g.createPaymentRequestFunc(ctx, req)
}

func (g *fakeGateway) MyPaymentRequests(ctx context.Context) ([]api.PaymentRequestResponse, error) {
	g.record("MyPaymentRequests")
	if g.myPaymentRequestsFunc == nil {
		return nil, fmt.Errorf("unexpected call to MyPaymentRequests")
	}
	return g.myPaymentRequestsFunc(ctx)
}

func (g *fakeGateway) AdminStats(ctx context.Context) (*api.AdminStatsResponse, error) {
	g.record("AdminStats")
	if g.adminStatsFunc == nil {
		return nil, fmt.Errorf("unexpected call to AdminStats")
	}
	return g.adminStatsFunc(ctx)
}

func (g *fakeGateway) AdminUsers(ctx context.Context) ([]api.UserResponse, error) {
	g.record("AdminUsers")
	if g.adminUsersFunc == nil {
		return nil, fmt.Errorf("unexpected call to AdminUsers")
	}
	return g.adminUsersFunc(ctx)
}

func (g *fakeGateway) AdminPayments(ctx context.Context) ([]api.PaymentRequestResponse, error) {
	g.record("AdminPayments")
	if g.adminPaymentsFunc == nil {
		return nil, fmt.Errorf("unexpected call to AdminPayments")
	}
	return g.adminPaymentsFunc(ctx)
}

func (g *fakeGateway) AdminSetBlocked(ctx context.Context, userID string, blocked bool) (*api.UserResponse, error) {
	g.record("AdminSetBlocked")
	if g.adminSetBlockedFunc == nil {
		return nil, fmt.Errorf("unexpected call to AdminSetBlocked")
	}
	return g.adminSetBlockedFunc(ctx, userID, blocked)
}

func (g *fakeGateway) AdminAddTokens(ctx context.Context, userID string, amount int64) (*api.AddTokensResponse, error) {
	g.record("AdminAddTokens")
	if g.adminAddTokensFunc == nil {
		return nil, fmt.Errorf("unexpected call to AdminAddTokens")
	}
	return g.adminAddTokensFunc(ctx, userID, amount)
}

func (g *fakeGateway) AdminApprovePayment(ctx context.Context, requestID string) (*api.PaymentRequestResponse, error) {
	g.record("AdminApprovePayment")
	if g.adminApprovePaymentFunc == nil {
		return nil, fmt.Errorf("unexpected call to AdminApprovePayment")
	}
	return g.adminApprovePaymentFunc(ctx, requestID)
}

func (g *fakeGateway) AdminRejectPayment(ctx context.Context, requestID string) (*api.PaymentRequestResponse, error) {
	g.record("AdminRejectPayment")
	if g.adminRejectPaymentFunc == nil {
		return nil, fmt.Errorf("unexpected call to AdminRejectPayment")
	}
	return g.adminRejectPaymentFunc(ctx, requestID)
}

// fakeNotifier собирает показанные уведомления
type fakeNotifier struct {
	messages []string
}

func (n *fakeNotifier) Notify(message string) {
	n.messages = append(n.messages, message)
}

// fakeNavigator собирает переходы между представлениями
type fakeNavigator struct {
	views []View
}

func (n *fakeNavigator) NavigateTo(view View) {
	n.views = append(n.views, view)
}

// memTokenStore реализует SessionStorage в памяти для сборки сессии в тестах
type memTokenStore struct {
	token    string
	hasToken bool
}

func (m *memTokenStore) SaveToken(_ context.Context, token string) error {
	m.token = token
	m.hasToken = true
	return nil
}

func (m *memTokenStore) Token(_ context.Context) (string, error) {
	if !m.hasToken {
		return "", storage.ErrTokenNotFound
	}
	return m.token, nil
}

func (m *memTokenStore) DeleteToken(_ context.Context) error {
	m.token = ""
	m.hasToken = false
	return nil
}

type profileStub struct {
	user *api.UserResponse
}

func (p profileStub) Me(_ context.Context) (*api.UserResponse, error) {
	if p.user == nil {
		return nil, fmt.Errorf("no profile")
	}
	return p.user, nil
}

// newAuthedSession открывает сессию с заданным профилем
func newAuthedSession(t *testing.T, user *api.UserResponse) *session.Session {
	t.Helper()

	sess := session.New(&memTokenStore{}, profileStub{user: user})
	require.NoError(t, sess.Login(context.Background(), "test-token", user))
	return sess
}
