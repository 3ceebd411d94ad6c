package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sladkolapy/Mishka/internal/models"
	"github.com/Sladkolapy/Mishka/internal/server/handlers"
)

func adminRequest(user *models.User) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	if user != nil {
		req = req.WithContext(context.WithValue(req.Context(), handlers.UserKey, user))
	}
	return req
}

func TestAdminMiddleware(t *testing.T) {
	mw := AdminMiddleware(setupTestLogger())

	called := false
	srv := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("admin passes", func(t *testing.T) {
		called = false
		w := httptest.NewRecorder()

		srv.ServeHTTP(w, adminRequest(&models.User{ID: "u1", IsAdmin: true}))

		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, called)
	})

	t.Run("regular user rejected", func(t *testing.T) {
		called = false
		w := httptest.NewRecorder()

		srv.ServeHTTP(w, adminRequest(&models.User{ID: "u2"}))

		require.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"detail":"admin access required"}`, w.Body.String())
		assert.False(t, called)
	})

	t.Run("no user in context", func(t *testing.T) {
		called = false
		w := httptest.NewRecorder()

		srv.ServeHTTP(w, adminRequest(nil))

		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, called)
	})
}
