package storage

import (
	"context"

	"github.com/Sladkolapy/Mishka/internal/models"
)

//go:generate moq -out payment_mock.go . PaymentStorage

// PaymentStorage defines interface for SBP payment requests
type PaymentStorage interface {
	// CreatePaymentRequest records a new pending request
	CreatePaymentRequest(ctx context.Context, req *models.PaymentRequest) error

	// GetPaymentRequest retrieves a request by ID
	// Returns ErrPaymentNotFound if request doesn't exist
	GetPaymentRequest(ctx context.Context, requestID string) (*models.PaymentRequest, error)

	// ListUserPaymentRequests returns the user's requests, newest first
	ListUserPaymentRequests(ctx context.Context, userID string) ([]models.PaymentRequest, error)

	// ListPaymentRequests returns all requests with user emails, newest first
	ListPaymentRequests(ctx context.Context) ([]models.PaymentRequest, error)

	// DecidePaymentRequest flips a pending request to approved or rejected.
	// Approving also credits the request amount to the user's balance and
	// records a transaction, atomically with the status change.
	// Returns ErrPaymentDecided if the request was already decided.
	DecidePaymentRequest(ctx context.Context, requestID, status, decidedBy string) (*models.PaymentRequest, error)

	// CountPendingPayments returns the number of pending requests
	CountPendingPayments(ctx context.Context) (int64, error)
}
