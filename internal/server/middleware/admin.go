package middleware

import (
	"log/slog"
	"net/http"

	"github.com/Sladkolapy/Mishka/internal/server/handlers"
)

// AdminMiddleware создает middleware, пропускающее только администраторов.
// Должно стоять после AuthMiddleware в цепочке.
func AdminMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := handlers.UserFromContext(r)
			if user == nil {
				logger.Error("AdminMiddleware used without AuthMiddleware")
				sendDetail(w, "not authenticated", http.StatusUnauthorized)
				return
			}

			if !user.IsAdmin {
				logger.Warn("Non-admin rejected from admin endpoint",
					"user_id", user.ID, "path", r.URL.Path)
				sendDetail(w, "admin access required", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
