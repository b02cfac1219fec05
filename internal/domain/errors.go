package domain

import "errors"

var (
	// ErrRequestNotFound is returned when no record exists for a request ID
	ErrRequestNotFound = errors.New("request not found")

	// ErrUserNotFound is returned when the user directory has no row for the user ID
	ErrUserNotFound = errors.New("user not found")

	// ErrTransactionNotFound is returned when the ledger has no document for the transaction ID
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrNoLineItems is returned when a transaction document carries an empty items list
	ErrNoLineItems = errors.New("transaction has no line items")
)

// RetryableError wraps transient errors that should trigger a requeue,
// typically a state-store outage that prevented recording an outcome.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return "retryable error: " + e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError creates a new retryable error
func NewRetryableError(err error) error {
	return &RetryableError{Err: err}
}
