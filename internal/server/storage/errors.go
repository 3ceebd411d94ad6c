package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that user with this email already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrChatNotFound indicates that chat was not found or belongs to another user
	ErrChatNotFound = errors.New("chat not found")

	// ErrFileNotFound indicates that file was not found or belongs to another user
	ErrFileNotFound = errors.New("file not found")

	// ErrPaymentNotFound indicates that payment request was not found
	ErrPaymentNotFound = errors.New("payment request not found")

	// ErrPaymentDecided indicates that payment request was already approved or rejected
	ErrPaymentDecided = errors.New("payment request already decided")

	// ErrInsufficientBalance indicates that debit would make the balance negative
	ErrInsufficientBalance = errors.New("insufficient balance")
)
