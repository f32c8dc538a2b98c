package service

import "errors"

// ValidationError marks input the caller can correct and resend.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound           = errors.New("User not found")
	ErrInvalidCredentials = errors.New("Invalid credentials")
)

// InternalError carries a generic message to the boundary and keeps the
// store-level cause wrapped for logs only.
type InternalError struct {
	Message string
	cause   error
}

func (e *InternalError) Error() string {
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.cause
}
