package controller

import (
	"context"
	"fmt"

	"github.com/Sladkolapy/Mishka/internal/client/session"
	"github.com/Sladkolapy/Mishka/internal/validation"
	"github.com/Sladkolapy/Mishka/pkg/api"
)

// AuthGateway описывает операции API, нужные контроллеру авторизации
type AuthGateway interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.TokenResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error)
}

// Auth управляет входом и регистрацией. Валидационные ошибки
// отлавливаются до любого сетевого вызова.
type Auth struct {
	gw      AuthGateway
	session *session.Session
}

// NewAuth создает контроллер авторизации
func NewAuth(gw AuthGateway, sess *session.Session) *Auth {
	return &Auth{gw: gw, session: sess}
}

// Register регистрирует пользователя и сразу открывает сессию.
// Без согласия с офертой запрос не отправляется.
func (a *Auth) Register(ctx context.Context, email, password string, agreeTerms bool) error {
	if !agreeTerms {
		return ErrTermsNotAccepted
	}
	if err := validation.ValidateEmail(email); err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	resp, err := a.gw.Register(ctx, api.RegisterRequest{
		Email:      email,
		Password:   password,
		AgreeTerms: agreeTerms,
	})
	if err != nil {
		return err
	}

	user := resp.User
	return a.session.Login(ctx, resp.AccessToken, &user)
}

// Login аутентифицирует пользователя и открывает сессию синхронно:
// и токен, и профиль уже получены одним ответом.
func (a *Auth) Login(ctx context.Context, email, password string) error {
	if err := validation.ValidateEmail(email); err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	resp, err := a.gw.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}

	user := resp.User
	return a.session.Login(ctx, resp.AccessToken, &user)
}
