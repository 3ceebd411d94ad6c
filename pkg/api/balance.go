package api

import "time"

// PricingResponse представляет таблицу стоимости действий (в токенах)
type PricingResponse struct {
	MessageCost int64 `json:"message_cost"`
}

// TopUpRequest представляет запрос на прямое пополнение баланса
type TopUpRequest struct {
	Amount int64 `json:"amount"`
}

// TopUpResponse представляет результат прямого пополнения
type TopUpResponse struct {
	NewBalance int64 `json:"new_balance"`
}

// TransactionResponse представляет одну операцию по балансу.
// Kind: "topup", "message", "payment_approved", "admin_grant", "signup_bonus".
type TransactionResponse struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Comment   string    `json:"comment,omitempty"`
	Amount    int64     `json:"amount"` // положительное пополнение, отрицательное списание
}

// PaymentInfoResponse представляет реквизиты для перевода по СБП
type PaymentInfoResponse struct {
	Recipient string `json:"recipient"`
	Phone     string `json:"phone"`
	Bank      string `json:"bank"`
	Comment   string `json:"comment"`
	MinAmount int64  `json:"min_amount"`
}

// PaymentRequestCreate представляет заявку на пополнение через СБП
type PaymentRequestCreate struct {
	Amount int64 `json:"amount"`
}

// PaymentRequestResponse представляет заявку на пополнение.
// Status: "pending", "approved", "rejected".
type PaymentRequestResponse struct {
	CreatedAt time.Time  `json:"created_at"`
	DecidedAt *time.Time `json:"decided_at,omitempty"`
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	UserEmail string     `json:"user_email,omitempty"`
	Status    string     `json:"status"`
	Amount    int64      `json:"amount"`
}
