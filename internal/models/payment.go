package models

import "time"

// Статусы заявок на пополнение через СБП
const (
	PaymentPending  = "pending"
	PaymentApproved = "approved"
	PaymentRejected = "rejected"
)

// PaymentRequest представляет заявку на пополнение баланса банковским
// переводом, требующую ручного подтверждения администратором.
type PaymentRequest struct {
	CreatedAt time.Time
	DecidedAt *time.Time
	ID        string
	UserID    string
	UserEmail string
	Status    string
	DecidedBy string
	Amount    int64
}
