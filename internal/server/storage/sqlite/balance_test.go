package sqlite

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sladkolapy/Mishka/internal/server/storage"
)

func TestBalanceStorage_Credit(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s) // balance 100

	newBalance, err := s.CreditBalance(ctx, userID, 50, "topup", "direct top-up")
	require.NoError(t, err)
	assert.Equal(t, int64(150), newBalance)

	user, err := s.GetUserByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(150), user.Balance)

	txs, err := s.ListTransactions(ctx, userID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "topup", txs[0].Kind)
	assert.Equal(t, int64(50), txs[0].Amount)
	assert.Equal(t, "direct top-up", txs[0].Comment)
}

func TestBalanceStorage_Debit(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s)

	newBalance, err := s.DebitBalance(ctx, userID, 5, "message", "")
	require.NoError(t, err)
	assert.Equal(t, int64(95), newBalance)

	txs, err := s.ListTransactions(ctx, userID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "message", txs[0].Kind)
	assert.Equal(t, int64(-5), txs[0].Amount, "debit is recorded with a negative amount")
}

func TestBalanceStorage_DebitInsufficient(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s)

	_, err := s.DebitBalance(ctx, userID, 500, "message", "")
	require.ErrorIs(t, err, storage.ErrInsufficientBalance)

	// баланс и история не тронуты
	user, err := s.GetUserByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), user.Balance)

	txs, err := s.ListTransactions(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestBalanceStorage_UnknownUser(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	_, err := s.CreditBalance(ctx, uuid.New().String(), 50, "topup", "")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	_, err = s.DebitBalance(ctx, uuid.New().String(), 5, "message", "")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestBalanceStorage_RejectsNonPositiveAmount(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s)

	_, err := s.CreditBalance(ctx, userID, 0, "topup", "")
	assert.Error(t, err)

	_, err = s.DebitBalance(ctx, userID, -5, "message", "")
	assert.Error(t, err)
}

func TestBalanceStorage_HistoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s)

	_, err := s.CreditBalance(ctx, userID, 50, "topup", "first")
	require.NoError(t, err)
	_, err = s.DebitBalance(ctx, userID, 5, "message", "second")
	require.NoError(t, err)

	txs, err := s.ListTransactions(ctx, userID)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "second", txs[0].Comment)
	assert.Equal(t, "first", txs[1].Comment)
}
