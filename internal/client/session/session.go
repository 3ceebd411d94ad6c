// Package session реализует клиентское состояние авторизации:
// единственный источник правды о том, вошел ли пользователь.
// Состояние не глобальное: объект Session явно передается
// каждому контроллеру.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	clientapi "github.com/Sladkolapy/Mishka/internal/client/api"
	"github.com/Sladkolapy/Mishka/internal/client/storage"
	"github.com/Sladkolapy/Mishka/pkg/api"
)

//go:generate moq -out profilefetcher_mock.go . ProfileFetcher

// ProfileFetcher обменивает сохраненный токен на проверенный профиль.
// Реализуется API-клиентом (GET /auth/me).
type ProfileFetcher interface {
	Me(ctx context.Context) (*api.UserResponse, error)
}

// State представляет снимок состояния сессии.
// Инвариант: после завершения резолва Token и User либо оба заполнены
// (авторизован), либо оба пусты (не авторизован).
type State struct {
	User    *api.UserResponse
	Token   string
	Loading bool
}

// Authenticated сообщает, что сессия авторизована
func (s State) Authenticated() bool {
	return !s.Loading && s.Token != "" && s.User != nil
}

// Session хранит состояние {token, user, loading} и владеет
// персистентным слотом токена. Все мутации проходят через методы;
// подписчики уведомляются о каждом переходе.
type Session struct {
	store    storage.SessionStorage
	profiles ProfileFetcher
	subs     map[int]func(State)
	state    State
	nextSub  int
	mu       sync.RWMutex
}

// New создает сессию в состоянии loading: до первого Resolve
// защищенные представления не должны ни открываться, ни редиректить.
func New(store storage.SessionStorage, profiles ProfileFetcher) *Session {
	return &Session{
		store:    store,
		profiles: profiles,
		subs:     make(map[int]func(State)),
		state:    State{Loading: true},
	}
}

// State возвращает текущий снимок состояния
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe регистрирует наблюдателя переходов состояния.
// Возвращает функцию отписки.
func (s *Session) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Resolve обменивает сохраненный токен на профиль. Вызывается один раз
// при старте приложения; повторный вызов безопасен (повторная проверка).
// Отказ сервера сбрасывает и сохраненный токен, и состояние; транзитный
// сбой сбрасывает только состояние текущего запуска.
func (s *Session) Resolve(ctx context.Context) error {
	s.setState(State{Loading: true})

	token, err := s.store.Token(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			s.setState(State{})
			return nil
		}
		s.setState(State{})
		return fmt.Errorf("failed to read session token: %w", err)
	}

	user, err := s.profiles.Me(ctx)
	if err != nil {
		// Транзитный сбой (сеть, таймаут) не трогает сохраненный токен:
		// этот запуск остается неавторизованным, следующий Resolve
		// попробует снова.
		var apiErr *clientapi.APIError
		if !errors.As(err, &apiErr) {
			s.setState(State{})
			return fmt.Errorf("session verification failed: %w", err)
		}
		// Сервер отклонил токен: чистим слот, чтобы не зациклиться
		// на мертвом токене
		if delErr := s.store.DeleteToken(ctx); delErr != nil {
			return fmt.Errorf("failed to clear rejected token: %w", delErr)
		}
		s.setState(State{})
		return fmt.Errorf("session verification failed: %w", err)
	}

	s.setState(State{Token: token, User: user})
	return nil
}

// Login сохраняет токен и выставляет состояние синхронно, без сетевого
// вызова: вызывающий уже получил и токен, и профиль от сервера.
func (s *Session) Login(ctx context.Context, token string, user *api.UserResponse) error {
	if token == "" || user == nil {
		return fmt.Errorf("login requires both token and profile")
	}

	if err := s.store.SaveToken(ctx, token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}

	s.setState(State{Token: token, User: user})
	return nil
}

// Logout сбрасывает сохраненный токен и состояние. Идемпотентен:
// повторный вызов приводит к тому же терминальному состоянию.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.store.DeleteToken(ctx); err != nil && !errors.Is(err, storage.ErrTokenNotFound) {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	s.setState(State{})
	return nil
}

// PatchBalance обновляет только поле balance текущего профиля,
// после платного действия, чтобы не перезапрашивать профиль целиком.
// Для неавторизованной сессии это no-op.
func (s *Session) PatchBalance(newBalance int64) {
	s.mu.Lock()
	if s.state.User == nil {
		s.mu.Unlock()
		return
	}
	userCopy := *s.state.User
	userCopy.Balance = newBalance
	s.state.User = &userCopy
	st := s.state
	subs := s.snapshotSubs()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	subs := s.snapshotSubs()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
}

// snapshotSubs копирует подписчиков под локом, чтобы уведомлять без него
func (s *Session) snapshotSubs() []func(State) {
	out := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}
