package storage

import "context"

//go:generate moq -out session_mock.go . SessionStorage

// SessionStorage defines interface for persisting the bearer token on the
// client. This is a single durable slot: it survives restarts and is the
// only source of truth for "is a user logged in". The token is stored
// as-is; expiry is discovered when profile verification fails.
type SessionStorage interface {
	// SaveToken stores the bearer token, replacing any previous one
	SaveToken(ctx context.Context, token string) error

	// Token retrieves the stored bearer token.
	// Returns ErrTokenNotFound if no token is persisted.
	Token(ctx context.Context) (string, error)

	// DeleteToken removes the stored token (logout).
	// Deleting an absent token is not an error.
	DeleteToken(ctx context.Context) error
}
