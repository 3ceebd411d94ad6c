package storage

import "errors"

// Common client storage errors
var (
	// ErrTokenNotFound indicates that no bearer token is persisted
	ErrTokenNotFound = errors.New("session token not found")
)
