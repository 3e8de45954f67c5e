package interfaces

import "errors"

var (
	// ErrNotFound is returned when no active document matches.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicateKey is returned when a write collides with a unique index.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrInsufficientStock is returned when a stock decrement would go below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrUsageLimitReached is returned when a coupon has no redemptions left.
	ErrUsageLimitReached = errors.New("coupon usage limit reached")
	// ErrStaleStatus is returned when a guarded status update finds a different current status.
	ErrStaleStatus = errors.New("status changed concurrently")
)
