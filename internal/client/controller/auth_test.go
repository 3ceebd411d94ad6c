package controller

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sladkolapy/Mishka/internal/client/session"
	"github.com/Sladkolapy/Mishka/pkg/api"
)

type fakeAuthGateway struct {
	registerFunc func(ctx context.Context, req api.RegisterRequest) (*api.TokenResponse, error)
	loginFunc    func(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error)
	calls        int
}

func (g *fakeAuthGateway) Register(ctx context.Context, req api.RegisterRequest) (*api.TokenResponse, error) {
	g.calls++
	if g.registerFunc == nil {
		return nil, fmt.Errorf("unexpected call to Register")
	}
	return g.registerFunc(ctx, req)
}

func (g *fakeAuthGateway) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	g.calls++
	if g.loginFunc == nil {
		return nil, fmt.Errorf("unexpected call to Login")
	}
	return g.loginFunc(ctx, req)
}

func newLoggedOutSession() *session.Session {
	return session.New(&memTokenStore{}, profileStub{})
}

func TestRegisterWithoutTermsSendsNothing(t *testing.T) {
	gw := &fakeAuthGateway{}
	auth := NewAuth(gw, newLoggedOutSession())

	err := auth.Register(context.Background(), "user@example.com", "password123", false)

	require.ErrorIs(t, err, ErrTermsNotAccepted)
	assert.Equal(t, 0, gw.calls, "request must not be sent without terms acceptance")
}

func TestRegisterValidatesBeforeRequest(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "bad email", email: "not-an-email", password: "password123"},
		{name: "short password", email: "user@example.com", password: "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeAuthGateway{}
			auth := NewAuth(gw, newLoggedOutSession())

			err := auth.Register(context.Background(), tt.email, tt.password, true)

			require.Error(t, err)
			assert.Equal(t, 0, gw.calls)
		})
	}
}

func TestRegisterOpensSession(t *testing.T) {
	user := api.UserResponse{ID: "u1", Email: "user@example.com", Balance: 100}
	gw := &fakeAuthGateway{
		registerFunc: func(_ context.Context, req api.RegisterRequest) (*api.TokenResponse, error) {
			assert.True(t, req.AgreeTerms)
			return &api.TokenResponse{AccessToken: "token-1", TokenType: "bearer", User: user}, nil
		},
	}
	sess := newLoggedOutSession()
	auth := NewAuth(gw, sess)

	require.NoError(t, auth.Register(context.Background(), "user@example.com", "password123", true))

	st := sess.State()
	require.True(t, st.Authenticated())
	assert.Equal(t, "token-1", st.Token)
	assert.Equal(t, "u1", st.User.ID)
	assert.Equal(t, int64(100), st.User.Balance)
}

func TestLoginOpensSession(t *testing.T) {
	user := api.UserResponse{ID: "u1", Email: "user@example.com", Balance: 40}
	gw := &fakeAuthGateway{
		loginFunc: func(_ context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
			assert.Equal(t, "user@example.com", req.Email)
			return &api.TokenResponse{AccessToken: "token-2", TokenType: "bearer", User: user}, nil
		},
	}
	sess := newLoggedOutSession()
	auth := NewAuth(gw, sess)

	require.NoError(t, auth.Login(context.Background(), "user@example.com", "password123"))
	assert.True(t, sess.State().Authenticated())
}

func TestLoginServerErrorLeavesSessionClosed(t *testing.T) {
	gw := &fakeAuthGateway{
		loginFunc: func(context.Context, api.LoginRequest) (*api.TokenResponse, error) {
			return nil, fmt.Errorf("invalid email or password")
		},
	}
	sess := newLoggedOutSession()
	auth := NewAuth(gw, sess)

	err := auth.Login(context.Background(), "user@example.com", "wrongpass")

	require.Error(t, err)
	assert.False(t, sess.State().Authenticated())
}

func TestLoginRejectsEmptyPasswordLocally(t *testing.T) {
	gw := &fakeAuthGateway{}
	auth := NewAuth(gw, newLoggedOutSession())

	err := auth.Login(context.Background(), "user@example.com", "")

	require.Error(t, err)
	assert.Equal(t, 0, gw.calls)
}
