package payment

import (
	"errors"
	"fmt"
	"time"

	"github.com/vietddude/blockphantom/internal/core/domain"
)

var (
	// ErrEmptyAddress is returned when a payment is requested without an address.
	ErrEmptyAddress = errors.New("enter an address")

	// ErrPaymentInit matches every payment initiation failure.
	ErrPaymentInit = errors.New("payment init failed")

	// ErrPollTimeout matches a polling loop that ended without observing paid.
	ErrPollTimeout = errors.New("payment not confirmed in time")

	// ErrSessionNotFound is returned for an unknown payment id.
	ErrSessionNotFound = errors.New("payment session not found")
)

// InitError wraps a gateway rejection or transport failure during initiation.
type InitError struct {
	cause error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("%s: %v", ErrPaymentInit, e.cause)
}

func (e *InitError) Is(target error) bool {
	return target == ErrPaymentInit
}

func (e *InitError) Unwrap() error {
	return e.cause
}

// PollTimeoutError reports why polling gave up.
type PollTimeoutError struct {
	Elapsed    time.Duration
	Attempts   int
	LastStatus domain.PaymentStatus
	// LastErr is set when polling stopped on consecutive fetch failures.
	LastErr error
}

func (e *PollTimeoutError) Error() string {
	if e.LastErr != nil {
		return fmt.Sprintf("%s: %d attempts in %s, last error: %v", ErrPollTimeout, e.Attempts, e.Elapsed, e.LastErr)
	}
	return fmt.Sprintf("%s: %d attempts in %s, last status %s", ErrPollTimeout, e.Attempts, e.Elapsed, e.LastStatus)
}

func (e *PollTimeoutError) Is(target error) bool {
	return target == ErrPollTimeout
}

func (e *PollTimeoutError) Unwrap() error {
	return e.LastErr
}
