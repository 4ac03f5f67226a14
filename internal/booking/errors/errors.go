package errors

import "errors"

var (
	ErrSessionNotFound = errors.New("booking session not found")

	ErrConfirmationNotFound = errors.New("confirmation not found")

	ErrArchiveDisabled = errors.New("confirmation archive is not configured")
)
