package controller

import (
	"context"
	"sync"

	"github.com/Sladkolapy/Mishka/internal/client/session"
	"github.com/Sladkolapy/Mishka/internal/validation"
	"github.com/Sladkolapy/Mishka/pkg/api"
)

// TopUpStrategy абстрагирует два сосуществующих способа пополнения:
// прямое зачисление и заявку через СБП, требующую решения администратора.
// applied=true означает синхронное зачисление с новым балансом.
type TopUpStrategy interface {
	TopUp(ctx context.Context, amount int64) (applied bool, newBalance int64, err error)
}

// DirectTopUp реализует прямое пополнение: сервер зачисляет сразу
type DirectTopUp struct {
	GW Gateway
}

func (s DirectTopUp) TopUp(ctx context.Context, amount int64) (bool, int64, error) {
	resp, err := s.GW.TopUp(ctx, api.TopUpRequest{Amount: amount})
	if err != nil {
		return false, 0, err
	}
	return true, resp.NewBalance, nil
}

// SBPTopUp создает заявку на пополнение переводом: зачисление произойдет
// только после подтверждения администратором, локально баланс не трогаем
type SBPTopUp struct {
	GW Gateway
}

func (s SBPTopUp) TopUp(ctx context.Context, amount int64) (bool, int64, error) {
	if _, err := s.GW.CreatePaymentRequest(ctx, api.PaymentRequestCreate{Amount: amount}); err != nil {
		return false, 0, err
	}
	return false, 0, nil
}

// Balance реализует контроллер экрана баланса: текущий баланс, история операций
// и заявки на пополнение.
type Balance struct {
	gw        Gateway
	notify    Notifier
	nav       Navigator
	session   *session.Session
	strategy  TopUpStrategy
	history   []api.TransactionResponse
	requests  []api.PaymentRequestResponse
	minAmount int64
	busy      bool
	mu        sync.Mutex
}

// NewBalance создает контроллер баланса с выбранной стратегией пополнения
func NewBalance(gw Gateway, notify Notifier, nav Navigator, sess *session.Session, strategy TopUpStrategy, minAmount int64) *Balance {
	return &Balance{gw: gw, notify: notify, nav: nav, session: sess, strategy: strategy, minAmount: minAmount}
}

// Load загружает историю операций и заявки при открытии экрана
func (b *Balance) Load(ctx context.Context) error {
	history, err := b.gw.BalanceHistory(ctx)
	if err != nil {
		reportFailure(ctx, b.session, b.notify, b.nav, err)
		return err
	}

	requests, err := b.gw.MyPaymentRequests(ctx)
	if err != nil {
		reportFailure(ctx, b.session, b.notify, b.nav, err)
		return err
	}

	b.mu.Lock()
	b.history = history
	b.requests = requests
	b.mu.Unlock()
	return nil
}

// Current возвращает текущий баланс из сессии
func (b *Balance) Current() int64 {
	st := b.session.State()
	if st.User == nil {
		return 0
	}
	return st.User.Balance
}

// History возвращает копию истории операций
func (b *Balance) History() []api.TransactionResponse {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]api.TransactionResponse, len(b.history))
	copy(out, b.history)
	return out
}

// Requests возвращает копию списка заявок пользователя
func (b *Balance) Requests() []api.PaymentRequestResponse {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]api.PaymentRequestResponse, len(b.requests))
	copy(out, b.requests)
	return out
}

// TopUp пополняет баланс через выбранную стратегию.
// Сумма проверяется до запроса. Баланс в сессии обновляется только при
// синхронном зачислении; отложенная заявка баланс не меняет.
func (b *Balance) TopUp(ctx context.Context, amount int64) error {
	if err := validation.ValidateTopUpAmount(amount, b.minAmount); err != nil {
		b.notify.Notify(err.Error())
		return err
	}
	if !b.begin() {
		return ErrActionInFlight
	}
	defer b.end()

	applied, newBalance, err := b.strategy.TopUp(ctx, amount)
	if err != nil {
		reportFailure(ctx, b.session, b.notify, b.nav, err)
		return err
	}

	if applied {
		b.session.PatchBalance(newBalance)
		b.notify.Notify("Balance updated")
	} else {
		b.notify.Notify("Request submitted, waiting for approval")
	}
	return nil
}

func (b *Balance) begin() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.busy {
		return false
	}
	b.busy = true
	return true
}

func (b *Balance) end() {
	b.mu.Lock()
	b.busy = false
	b.mu.Unlock()
}
