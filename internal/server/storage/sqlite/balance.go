package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Sladkolapy/Mishka/internal/models"
	"github.com/Sladkolapy/Mishka/internal/server/storage"
)

// CreditBalance atomically adds amount to the user's balance and records
// a transaction
func (s *Storage) CreditBalance(ctx context.Context, userID string, amount int64, kind, comment string) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("credit amount must be positive, got %d", amount)
	}
	return s.applyBalanceChange(ctx, userID, amount, kind, comment, false)
}

// DebitBalance atomically subtracts amount from the user's balance.
// Returns ErrInsufficientBalance without any change when the balance is too low.
func (s *Storage) DebitBalance(ctx context.Context, userID string, amount int64, kind, comment string) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("debit amount must be positive, got %d", amount)
	}
	return s.applyBalanceChange(ctx, userID, -amount, kind, comment, true)
}

// applyBalanceChange выполняет изменение баланса и запись транзакции в
// одной транзакции БД. При guarded списание не может увести баланс в минус.
func (s *Storage) applyBalanceChange(ctx context.Context, userID string, delta int64, kind, comment string, guarded bool) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback после commit безвреден

	query := `UPDATE users SET balance = balance + ? WHERE id = ?`
	if guarded {
		query += ` AND balance >= ?`
	}

	args := []interface{}{delta, userID}
	if guarded {
		args = append(args, -delta)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update balance: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		if !guarded {
			return 0, storage.ErrUserNotFound
		}
		// Различаем отсутствие пользователя и нехватку токенов
		var exists int64
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE id = ?`, userID).Scan(&exists); err != nil {
			return 0, fmt.Errorf("failed to check user: %w", err)
		}
		if exists == 0 {
			return 0, storage.ErrUserNotFound
		}
		return 0, storage.ErrInsufficientBalance
	}

	insert := `
		INSERT INTO transactions (id, user_id, kind, comment, amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, insert,
		uuid.New().String(), userID, kind, comment, delta, time.Now().UTC()); err != nil {
		return 0, fmt.Errorf("failed to insert transaction: %w", err)
	}

	var balance int64
	if err := tx.QueryRowContext(ctx, `SELECT balance FROM users WHERE id = ?`, userID).Scan(&balance); err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit tx: %w", err)
	}

	return balance, nil
}

// ListTransactions returns the user's transactions, newest first
func (s *Storage) ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	query := `
		SELECT id, user_id, kind, comment, amount, created_at
		FROM transactions
		WHERE user_id = ?
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Kind,
			&t.Comment,
			&t.Amount,
			&t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txs, nil
}
