// Package controller содержит контроллеры представлений: каждый владеет
// собственной транзитной копией серверных данных, загружает её при
// открытии и сводит оптимистичные правки с ответами сервера.
package controller

import (
	"context"
	"errors"
	"io"

	clientapi "github.com/Sladkolapy/Mishka/internal/client/api"
	"github.com/Sladkolapy/Mishka/internal/client/session"
	"github.com/Sladkolapy/Mishka/pkg/api"
)

// View идентифицирует представление для навигации
type View int

const (
	ViewLogin View = iota
	ViewDashboard
	ViewChat
	ViewBalance
	ViewAdmin
)

//go:generate moq -out notifier_mock.go . Notifier
//go:generate moq -out navigator_mock.go . Navigator

// Notifier показывает пользователю немодальное уведомление.
// Все ошибки контроллеров превращаются в такие уведомления,
// до глобального обработчика они не долетают.
type Notifier interface {
	Notify(message string)
}

// Navigator выполняет переход между представлениями
type Navigator interface {
	NavigateTo(view View)
}

// Gateway перечисляет операции API, нужные контроллерам.
// Реализуется клиентом internal/client/api.
type Gateway interface {
	CreateChat(ctx context.Context, req api.ChatCreateRequest) (*api.ChatResponse, error)
	ListChats(ctx context.Context) ([]api.ChatResponse, error)
	GetChat(ctx context.Context, chatID string) (*api.ChatDetailResponse, error)
	DeleteChat(ctx context.Context, chatID string) error
	SendMessage(ctx context.Context, chatID string, req api.MessageCreateRequest) (*api.MessageResponse, error)
	UploadFile(ctx context.Context, chatID, filename string, content io.Reader) (*api.UploadResponse, error)
	Pricing(ctx context.Context) (*api.PricingResponse, error)
	BalanceHistory(ctx context.Context) ([]api.TransactionResponse, error)
	TopUp(ctx context.Context, req api.TopUpRequest) (*api.TopUpResponse, error)
	PaymentInfo(ctx context.Context) (*api.PaymentInfoResponse, error)
	CreatePaymentRequest(ctx context.Context, req api.PaymentRequestCreate) (*api.PaymentRequestResponse, error)
	MyPaymentRequests(ctx context.Context) ([]api.PaymentRequestResponse, error)
	AdminStats(ctx context.Context) (*api.AdminStatsResponse, error)
	AdminUsers(ctx context.Context) ([]api.UserResponse, error)
	AdminPayments(ctx context.Context) ([]api.PaymentRequestResponse, error)
	AdminSetBlocked(ctx context.Context, userID string, blocked bool) (*api.UserResponse, error)
	AdminAddTokens(ctx context.Context, userID string, amount int64) (*api.AddTokensResponse, error)
	AdminApprovePayment(ctx context.Context, requestID string) (*api.PaymentRequestResponse, error)
	AdminRejectPayment(ctx context.Context, requestID string) (*api.PaymentRequestResponse, error)
}

// Общие ошибки контроллеров
var (
	// ErrActionInFlight: повторный запуск действия, пока не пришел ответ
	// на предыдущее; элемент управления «выключен»
	ErrActionInFlight = errors.New("action already in flight")

	// ErrConfirmationRequired: деструктивное действие без подтверждения
	ErrConfirmationRequired = errors.New("confirmation required")

	// ErrInsufficientBalance: клиентская проверка баланса не пройдена,
	// запрос не отправлялся
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrTermsNotAccepted: регистрация без согласия с офертой,
	// запрос не отправлялся
	ErrTermsNotAccepted = errors.New("terms must be accepted")
)

// reportFailure показывает уведомление о неудавшемся запросе.
// 401 означает протухший или отозванный токен: сессия закрывается,
// персистентный токен удаляется, пользователь уводится на экран входа.
func reportFailure(ctx context.Context, sess *session.Session, notify Notifier, nav Navigator, err error) {
	notify.Notify(clientapi.UserMessage(err))
	if clientapi.IsUnauthorized(err) {
		_ = sess.Logout(ctx)
		nav.NavigateTo(ViewLogin)
	}
}
