package domain

import (
	"errors"
	"fmt"
)

// Workflow error taxonomy. AlreadyProcessed is the idempotence signal: a
// retried or racing operation observes it instead of applying twice.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrDuplicateEmail      = errors.New("email has already been submitted")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAlreadyProcessed    = errors.New("already processed")
	ErrBlocked             = errors.New("user is blocked")
	ErrNotFound            = errors.New("not found")
	ErrNoDestination       = errors.New("no payout destination configured for this method")
	ErrBelowMinimum        = errors.New("amount below minimum withdrawal")
	ErrDailyLimitReached   = errors.New("daily withdrawal limit reached")
	ErrTooManyPending      = errors.New("too many pending withdrawals")
	ErrUnauthorized        = errors.New("unauthorized")
)

// RateLimitedError carries the remaining cooldown so the caller can tell
// the user when to retry.
type RateLimitedError struct {
	SecondsRemaining int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited: retry in %ds", e.SecondsRemaining)
}

// IsRateLimited extracts a RateLimitedError from an error chain.
func IsRateLimited(err error) (*RateLimitedError, bool) {
	var rl *RateLimitedError
	if errors.As(err, &rl) {
		return rl, true
	}
	return nil, false
}
