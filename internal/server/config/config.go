package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config содержит конфигурацию сервера, читаемую из переменных окружения.
type Config struct {
	Address         string
	DatabasePath    string
	JWTSecret       string
	UploadDir       string
	GeneratedDir    string
	CORSOrigins     []string
	PaymentPhone    string
	PaymentBank     string
	PaymentPerson   string
	AdminEmail      string
	TokenTTL        time.Duration
	MessageCost     int64
	StartingBalance int64
	MinTopUp        int64
}

// Load читает конфигурацию из окружения и выполняет минимальную валидацию.
// JWT_SECRET обязателен, остальное имеет разумные значения по умолчанию.
func Load() (Config, error) {
	cfg := Config{
		Address:       fallback(os.Getenv("SERVER_ADDRESS"), ":8080"),
		DatabasePath:  fallback(os.Getenv("DATABASE_PATH"), "mishka.db"),
		JWTSecret:     strings.TrimSpace(os.Getenv("JWT_SECRET")),
		UploadDir:     fallback(os.Getenv("UPLOAD_DIR"), "uploads"),
		GeneratedDir:  fallback(os.Getenv("GENERATED_DIR"), "generated"),
		CORSOrigins:   parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		PaymentPhone:  fallback(os.Getenv("PAYMENT_PHONE"), "+7 900 000-00-00"),
		PaymentBank:   fallback(os.Getenv("PAYMENT_BANK"), "T-Bank"),
		PaymentPerson: fallback(os.Getenv("PAYMENT_RECIPIENT"), "Mishka LLC"),
		// Аккаунт с этим email получает права администратора при регистрации
		AdminEmail: strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))),
	}

	cfg.MessageCost = parseInt64(os.Getenv("MESSAGE_COST"), 5)
	cfg.StartingBalance = parseInt64(os.Getenv("STARTING_BALANCE"), 100)
	cfg.MinTopUp = parseInt64(os.Getenv("MIN_TOPUP"), 10)

	// Срок жизни токена по умолчанию 7 дней
	days := parseInt64(os.Getenv("TOKEN_TTL_DAYS"), 7)
	cfg.TokenTTL = time.Duration(days) * 24 * time.Hour

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	if cfg.MessageCost <= 0 {
		return Config{}, errors.New("MESSAGE_COST must be positive")
	}

	return cfg, nil
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseInt64(value string, def int64) int64 {
	if strings.TrimSpace(value) == "" {
		return def
	}
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return def
	}
	return n
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
