package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Sladkolapy/Mishka/internal/server/assistant"
	"github.com/Sladkolapy/Mishka/internal/server/config"
	"github.com/Sladkolapy/Mishka/internal/server/handlers"
	"github.com/Sladkolapy/Mishka/internal/server/middleware"
	"github.com/Sladkolapy/Mishka/internal/server/storage"
)

// Store объединяет все хранилища сервера; sqlite реализует интерфейс целиком
type Store interface {
	storage.UserStorage
	storage.ChatStorage
	storage.FileStorage
	storage.BalanceStorage
	storage.PaymentStorage
}

// Server wraps an http.Server with configured routes
type Server struct {
	inner *http.Server
}

// New собирает маршруты, middleware и возвращает готовый сервер
func New(cfg config.Config, logger *slog.Logger, store Store, asst assistant.Assistant, version string) *Server {
	jwtConfig := handlers.JWTConfig{
		Secret:   []byte(cfg.JWTSecret),
		TokenTTL: cfg.TokenTTL,
	}

	authHandler := handlers.NewAuthHandler(logger, store, store, jwtConfig, cfg.AdminEmail, cfg.StartingBalance)
	chatHandler := handlers.NewChatHandler(logger, store, store, store, asst, cfg.UploadDir, cfg.GeneratedDir, cfg.MessageCost)
	filesHandler := handlers.NewFilesHandler(logger, store)
	balanceHandler := handlers.NewBalanceHandler(logger, store, store, cfg)
	adminHandler := handlers.NewAdminHandler(logger, store, store, store, store)
	legalHandler := handlers.NewLegalHandler(logger)
	healthHandler := handlers.NewHealthHandler(logger, version)

	authMW := middleware.AuthMiddleware(logger, jwtConfig, store)
	adminMW := middleware.AdminMiddleware(logger)

	r := mux.NewRouter()
	r.Use(middleware.RecoveryMiddleware(logger))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middleware.LoggingMiddleware(logger))

	api := r.PathPrefix("/api").Subrouter()

	// Публичные маршруты
	api.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	api.HandleFunc("/legal/{type}", legalHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/pricing", balanceHandler.Pricing).Methods(http.MethodGet)
	api.HandleFunc("/payment/info", balanceHandler.PaymentInfo).Methods(http.MethodGet)

	// Auth с ограничением частоты против перебора паролей
	auth := api.PathPrefix("/auth").Subrouter()
	auth.Use(middleware.RateLimitMiddleware(20, time.Minute, logger))
	auth.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)

	// Защищенные маршруты
	protected := api.PathPrefix("/").Subrouter()
	protected.Use(authMW)
	protected.HandleFunc("/auth/me", authHandler.Me).Methods(http.MethodGet)
	protected.HandleFunc("/chat/create", chatHandler.CreateChat).Methods(http.MethodPost)
	protected.HandleFunc("/chat/list", chatHandler.ListChats).Methods(http.MethodGet)
	protected.HandleFunc("/chat/{id}", chatHandler.GetChat).Methods(http.MethodGet)
	protected.HandleFunc("/chat/{id}", chatHandler.DeleteChat).Methods(http.MethodDelete)
	protected.HandleFunc("/chat/{id}/message", chatHandler.SendMessage).Methods(http.MethodPost)
	protected.HandleFunc("/chat/{id}/upload", chatHandler.Upload).Methods(http.MethodPost)
	protected.HandleFunc("/files/{id}/download", filesHandler.Download).Methods(http.MethodGet)
	protected.HandleFunc("/balance/history", balanceHandler.History).Methods(http.MethodGet)
	protected.HandleFunc("/balance/topup", balanceHandler.TopUp).Methods(http.MethodPost)
	protected.HandleFunc("/payment/request", balanceHandler.CreatePaymentRequest).Methods(http.MethodPost)
	protected.HandleFunc("/payment/my-requests", balanceHandler.MyPaymentRequests).Methods(http.MethodGet)

	// Админские маршруты
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(authMW, adminMW)
	admin.HandleFunc("/stats", adminHandler.Stats).Methods(http.MethodGet)
	admin.HandleFunc("/users", adminHandler.Users).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}", adminHandler.UpdateUser).Methods(http.MethodPatch)
	admin.HandleFunc("/users/{id}/add-tokens", adminHandler.AddTokens).Methods(http.MethodPost)
	admin.HandleFunc("/payments", adminHandler.Payments).Methods(http.MethodGet)
	admin.HandleFunc("/payments/{id}/approve", adminHandler.ApprovePayment).Methods(http.MethodPost)
	admin.HandleFunc("/payments/{id}/reject", adminHandler.RejectPayment).Methods(http.MethodPost)

	httpServer := &http.Server{
		Addr:              cfg.Address,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Handler возвращает корневой handler (для httptest)
func (s *Server) Handler() http.Handler {
	return s.inner.Handler
}

// Start begins serving HTTP traffic
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
