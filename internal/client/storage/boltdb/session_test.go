package boltdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sladkolapy/Mishka/internal/client/storage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(context.Background(), dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	return s
}

func TestSaveAndReadToken(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveToken(ctx, "token-1"))

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)
}

func TestSaveTokenOverwrites(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveToken(ctx, "token-1"))
	require.NoError(t, s.SaveToken(ctx, "token-2"))

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-2", token)
}

func TestTokenNotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.Token(context.Background())
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)
}

func TestDeleteToken(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveToken(ctx, "token-1"))
	require.NoError(t, s.DeleteToken(ctx))

	_, err := s.Token(ctx)
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)
}

func TestDeleteTokenIdempotent(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	// Удаление отсутствующего токена не должно быть ошибкой
	require.NoError(t, s.DeleteToken(ctx))
	require.NoError(t, s.DeleteToken(ctx))
}

func TestTokenSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, s.SaveToken(ctx, "persistent"))
	require.NoError(t, s.Close())

	s2, err := New(ctx, dbPath)
	require.NoError(t, err)
	defer s2.Close()

	token, err := s2.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persistent", token)
}
