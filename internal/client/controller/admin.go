package controller

import (
	"context"
	"sync"

	clientapi "github.com/Sladkolapy/Mishka/internal/client/api"
	"github.com/Sladkolapy/Mishka/internal/client/session"
	"github.com/Sladkolapy/Mishka/pkg/api"
)

// Admin реализует контроллер админ-панели: пользователи и заявки на пополнение.
// Никаких оптимистичных правок: локальные записи меняются только после
// подтверждения сервером.
type Admin struct {
	gw       Gateway
	notify   Notifier
	nav      Navigator
	session  *session.Session
	stats    *api.AdminStatsResponse
	users    []api.UserResponse
	payments []api.PaymentRequestResponse
	busy     bool
	mu       sync.Mutex
}

// NewAdmin создает контроллер админ-панели
func NewAdmin(gw Gateway, notify Notifier, nav Navigator, sess *session.Session) *Admin {
	return &Admin{gw: gw, notify: notify, nav: nav, session: sess}
}

// Load загружает статистику, пользователей и заявки.
// 403 уводит не-админа с экрана.
func (a *Admin) Load(ctx context.Context) error {
	stats, err := a.gw.AdminStats(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}
	users, err := a.gw.AdminUsers(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}
	payments, err := a.gw.AdminPayments(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}

	a.mu.Lock()
	a.stats = stats
	a.users = users
	a.payments = payments
	a.mu.Unlock()
	return nil
}

// Stats возвращает загруженную статистику (nil до Load)
func (a *Admin) Stats() *api.AdminStatsResponse {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// Users возвращает копию списка пользователей
func (a *Admin) Users() []api.UserResponse {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]api.UserResponse, len(a.users))
	copy(out, a.users)
	return out
}

// Payments возвращает копию списка заявок
func (a *Admin) Payments() []api.PaymentRequestResponse {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]api.PaymentRequestResponse, len(a.payments))
	copy(out, a.payments)
	return out
}

// SetBlocked блокирует или разблокирует пользователя
func (a *Admin) SetBlocked(ctx context.Context, userID string, blocked bool) error {
	if !a.begin() {
		return ErrActionInFlight
	}
	defer a.end()

	updated, err := a.gw.AdminSetBlocked(ctx, userID, blocked)
	if err != nil {
		return a.fail(ctx, err)
	}

	a.mu.Lock()
	for i := range a.users {
		if a.users[i].ID == updated.ID {
			a.users[i] = *updated
			break
		}
	}
	a.mu.Unlock()
	return nil
}

// GrantTokens начисляет пользователю токены. Запись в локальном списке
// обновляется только после подтверждения сервером.
func (a *Admin) GrantTokens(ctx context.Context, userID string, amount int64) error {
	if !a.begin() {
		return ErrActionInFlight
	}
	defer a.end()

	resp, err := a.gw.AdminAddTokens(ctx, userID, amount)
	if err != nil {
		return a.fail(ctx, err)
	}

	a.mu.Lock()
	for i := range a.users {
		if a.users[i].ID == userID {
			a.users[i].Balance = resp.NewBalance
			break
		}
	}
	a.mu.Unlock()
	return nil
}

// ApprovePayment подтверждает заявку на пополнение
func (a *Admin) ApprovePayment(ctx context.Context, requestID string) error {
	return a.decidePayment(ctx, requestID, a.gw.AdminApprovePayment)
}

// RejectPayment отклоняет заявку на пополнение
func (a *Admin) RejectPayment(ctx context.Context, requestID string) error {
	return a.decidePayment(ctx, requestID, a.gw.AdminRejectPayment)
}

func (a *Admin) decidePayment(ctx context.Context, requestID string, decide func(context.Context, string) (*api.PaymentRequestResponse, error)) error {
	if !a.begin() {
		return ErrActionInFlight
	}
	defer a.end()

	updated, err := decide(ctx, requestID)
	if err != nil {
		return a.fail(ctx, err)
	}

	a.mu.Lock()
	for i := range a.payments {
		if a.payments[i].ID == updated.ID {
			a.payments[i] = *updated
			break
		}
	}
	a.mu.Unlock()
	return nil
}

// fail показывает уведомление; 403 уводит не-админа на главный экран,
// 401 закрывает сессию и уводит на вход
func (a *Admin) fail(ctx context.Context, err error) error {
	reportFailure(ctx, a.session, a.notify, a.nav, err)
	if clientapi.IsForbidden(err) {
		a.nav.NavigateTo(ViewDashboard)
	}
	return err
}

func (a *Admin) begin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.busy {
		return false
	}
	a.busy = true
	return true
}

func (a *Admin) end() {
	a.mu.Lock()
	a.busy = false
	a.mu.Unlock()
}
