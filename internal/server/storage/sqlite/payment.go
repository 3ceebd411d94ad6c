package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Sladkolapy/Mishka/internal/models"
	"github.com/Sladkolapy/Mishka/internal/server/storage"
)

// CreatePaymentRequest records a new pending request
func (s *Storage) CreatePaymentRequest(ctx context.Context, req *models.PaymentRequest) error {
	query := `
		INSERT INTO payment_requests (id, user_id, status, amount, decided_by, decided_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		req.ID,
		req.UserID,
		req.Status,
		req.Amount,
		req.DecidedBy,
		req.DecidedAt,
		req.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert payment request: %w", err)
	}

	return nil
}

// GetPaymentRequest retrieves a request by ID
func (s *Storage) GetPaymentRequest(ctx context.Context, requestID string) (*models.PaymentRequest, error) {
	query := `
		SELECT p.id, p.user_id, u.email, p.status, p.amount, p.decided_by, p.decided_at, p.created_at
		FROM payment_requests p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = ?
	`

	req, err := scanPaymentRequest(s.db.QueryRowContext(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment request: %w", err)
	}

	return req, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPaymentRequest(row rowScanner) (*models.PaymentRequest, error) {
	req := &models.PaymentRequest{}
	var decidedAt sql.NullTime

	err := row.Scan(
		&req.ID,
		&req.UserID,
		&req.UserEmail,
		&req.Status,
		&req.Amount,
		&req.DecidedBy,
		&decidedAt,
		&req.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if decidedAt.Valid {
		req.DecidedAt = &decidedAt.Time
	}

	return req, nil
}

// ListUserPaymentRequests returns the user's requests, newest first
func (s *Storage) ListUserPaymentRequests(ctx context.Context, userID string) ([]models.PaymentRequest, error) {
	query := `
		SELECT p.id, p.user_id, u.email, p.status, p.amount, p.decided_by, p.decided_at, p.created_at
		FROM payment_requests p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = ?
		ORDER BY p.created_at DESC
	`

	return s.queryPaymentRequests(ctx, query, userID)
}

// ListPaymentRequests returns all requests with user emails, newest first
func (s *Storage) ListPaymentRequests(ctx context.Context) ([]models.PaymentRequest, error) {
	query := `
		SELECT p.id, p.user_id, u.email, p.status, p.amount, p.decided_by, p.decided_at, p.created_at
		FROM payment_requests p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC
	`

	return s.queryPaymentRequests(ctx, query)
}

func (s *Storage) queryPaymentRequests(ctx context.Context, query string, args ...interface{}) ([]models.PaymentRequest, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment requests: %w", err)
	}
	defer rows.Close()

	var reqs []models.PaymentRequest
	for rows.Next() {
		req, err := scanPaymentRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment request: %w", err)
		}
		reqs = append(reqs, *req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment requests: %w", err)
	}

	return reqs, nil
}

// DecidePaymentRequest flips a pending request to approved or rejected.
// Заявка решается ровно один раз: повторное решение возвращает ErrPaymentDecided.
// Подтверждение зачисляет сумму заявки и пишет запись в transactions в той же
// транзакции БД, поэтому статус approved без зачисления невозможен.
func (s *Storage) DecidePaymentRequest(ctx context.Context, requestID, status, decidedBy string) (*models.PaymentRequest, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback после commit безвреден

	var (
		userID  string
		amount  int64
		current string
	)
	err = tx.QueryRowContext(ctx,
		`SELECT user_id, amount, status FROM payment_requests WHERE id = ?`, requestID).
		Scan(&userID, &amount, &current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to load payment request: %w", err)
	}
	if current != models.PaymentPending {
		return nil, storage.ErrPaymentDecided
	}

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		`UPDATE payment_requests SET status = ?, decided_by = ?, decided_at = ? WHERE id = ?`,
		status, decidedBy, now, requestID); err != nil {
		return nil, fmt.Errorf("failed to decide payment request: %w", err)
	}

	if status == models.PaymentApproved {
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET balance = balance + ? WHERE id = ?`, amount, userID); err != nil {
			return nil, fmt.Errorf("failed to credit approved payment: %w", err)
		}
		insert := `
			INSERT INTO transactions (id, user_id, kind, comment, amount, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`
		if _, err := tx.ExecContext(ctx, insert,
			uuid.New().String(), userID, "payment_approved",
			fmt.Sprintf("payment request %s approved", requestID), amount, now); err != nil {
			return nil, fmt.Errorf("failed to record approved payment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit tx: %w", err)
	}

	return s.GetPaymentRequest(ctx, requestID)
}

// CountPendingPayments returns the number of pending requests
func (s *Storage) CountPendingPayments(ctx context.Context) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM payment_requests WHERE status = ?`
	if err := s.db.QueryRowContext(ctx, query, models.PaymentPending).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending payments: %w", err)
	}
	return count, nil
}
