package domain

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrDuplicateReference means an order for the payment reference
	// already exists. Inside reconciliation it is an idempotency signal,
	// not a failure: the caller re-reads the winning order.
	ErrDuplicateReference = errors.New("order with payment reference already exists")

	// ErrDuplicateEmail covers unique-email collisions on admin users
	// and newsletter subscribers.
	ErrDuplicateEmail = errors.New("email already registered")
)
