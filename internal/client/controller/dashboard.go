package controller

import (
	"context"
	"strings"
	"sync"

	"github.com/Sladkolapy/Mishka/internal/client/session"
	"github.com/Sladkolapy/Mishka/pkg/api"
)

// DashboardState описывает состояние списка чатов
type DashboardState int

const (
	DashboardLoading DashboardState = iota
	DashboardReady
	DashboardEmpty
	DashboardSearching
)

// Dashboard реализует контроллер списка чатов. Владеет собственной копией
// списка; копия отбрасывается при уходе с экрана.
type Dashboard struct {
	gw      Gateway
	notify  Notifier
	nav     Navigator
	session *session.Session
	chats   []api.ChatResponse
	query   string
	state   DashboardState
	busy    bool
	mu      sync.Mutex
}

// NewDashboard создает контроллер списка чатов
func NewDashboard(gw Gateway, notify Notifier, nav Navigator, sess *session.Session) *Dashboard {
	return &Dashboard{gw: gw, notify: notify, nav: nav, session: sess, state: DashboardLoading}
}

// State возвращает текущее состояние экрана
func (d *Dashboard) State() DashboardState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Load загружает список чатов при открытии экрана
func (d *Dashboard) Load(ctx context.Context) error {
	chats, err := d.gw.ListChats(ctx)
	if err != nil {
		reportFailure(ctx, d.session, d.notify, d.nav, err)
		return err
	}

	d.mu.Lock()
	d.chats = chats
	if len(chats) == 0 {
		d.state = DashboardEmpty
	} else {
		d.state = DashboardReady
	}
	d.mu.Unlock()
	return nil
}

// Chats возвращает видимый список с учетом поискового фильтра
func (d *Dashboard) Chats() []api.ChatResponse {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.query == "" {
		out := make([]api.ChatResponse, len(d.chats))
		copy(out, d.chats)
		return out
	}

	q := strings.ToLower(d.query)
	var out []api.ChatResponse
	for _, c := range d.chats {
		if strings.Contains(strings.ToLower(c.Title), q) {
			out = append(out, c)
		}
	}
	return out
}

// Search фильтрует список локально, без запроса к серверу
func (d *Dashboard) Search(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.query = strings.TrimSpace(query)
	if d.query != "" {
		d.state = DashboardSearching
	} else if len(d.chats) == 0 {
		d.state = DashboardEmpty
	} else {
		d.state = DashboardReady
	}
}

// CreateChat блокирующее действие: по успеху переходим в новый чат
func (d *Dashboard) CreateChat(ctx context.Context, title string) (*api.ChatResponse, error) {
	if !d.begin() {
		return nil, ErrActionInFlight
	}
	defer d.end()

	chat, err := d.gw.CreateChat(ctx, api.ChatCreateRequest{Title: title})
	if err != nil {
		reportFailure(ctx, d.session, d.notify, d.nav, err)
		return nil, err
	}

	d.mu.Lock()
	d.chats = append([]api.ChatResponse{*chat}, d.chats...)
	d.state = DashboardReady
	d.mu.Unlock()

	d.nav.NavigateTo(ViewChat)
	return chat, nil
}

// DeleteChat удаляет чат. Требует явного подтверждения; из локального
// списка элемент убирается только после подтверждения сервером.
func (d *Dashboard) DeleteChat(ctx context.Context, chatID string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if !d.begin() {
		return ErrActionInFlight
	}
	defer d.end()

	if err := d.gw.DeleteChat(ctx, chatID); err != nil {
		reportFailure(ctx, d.session, d.notify, d.nav, err)
		return err
	}

	d.mu.Lock()
	kept := d.chats[:0]
	for _, c := range d.chats {
		if c.ID != chatID {
			kept = append(kept, c)
		}
	}
	d.chats = kept
	if len(d.chats) == 0 {
		d.state = DashboardEmpty
	}
	d.mu.Unlock()
	return nil
}

// begin/end сериализуют мутирующие действия экрана:
// повторный запуск до ответа сервера отклоняется.
func (d *Dashboard) begin() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.busy {
		return false
	}
	d.busy = true
	return true
}

func (d *Dashboard) end() {
	d.mu.Lock()
	d.busy = false
	d.mu.Unlock()
}
