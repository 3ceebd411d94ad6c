package storage

import (
	"context"

	"github.com/Sladkolapy/Mishka/internal/models"
)

//go:generate moq -out balance_mock.go . BalanceStorage

// BalanceStorage defines interface for the token ledger
type BalanceStorage interface {
	// CreditBalance atomically adds amount to the user's balance and
	// records a transaction. Amount must be positive.
	// Returns the new balance.
	CreditBalance(ctx context.Context, userID string, amount int64, kind, comment string) (int64, error)

	// DebitBalance atomically subtracts amount from the user's balance and
	// records a transaction. Returns ErrInsufficientBalance without any
	// change when the balance is too low.
	DebitBalance(ctx context.Context, userID string, amount int64, kind, comment string) (int64, error)

	// ListTransactions returns the user's transactions, newest first
	ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error)
}
