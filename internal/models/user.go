package models

import "time"

// User представляет пользователя на сервере.
// Balance хранится в токенах (целое число, биллинговая единица,
// не путать с bearer-токеном авторизации).
type User struct {
	CreatedAt    time.Time
	ID           string
	Email        string
	PasswordHash string
	Balance      int64
	IsAdmin      bool
	IsBlocked    bool
}

// Transaction представляет одну операцию по балансу пользователя.
type Transaction struct {
	CreatedAt time.Time
	ID        string
	UserID    string
	Kind      string // topup | message | payment_approved | admin_grant | signup_bonus
	Comment   string
	Amount    int64 // положительное пополнение, отрицательное списание
}
