package analysis

import (
	"context"
	"errors"

	"github.com/vietddude/blockphantom/internal/infra/backend"
)

var (
	// ErrEmptyAddress is returned when no address is given and demo fallback is off.
	ErrEmptyAddress = errors.New("enter a wallet address")

	// ErrQuery is the generic failure of a paired risk+history query.
	ErrQuery = errors.New("could not fetch data, check the API base or backend status")

	// ErrQueryTimeout marks a query that failed because a call ran past its deadline.
	ErrQueryTimeout = errors.New("query timed out")

	// ErrSuperseded is returned when a newer query started before this one settled.
	// Its result was discarded.
	ErrSuperseded = errors.New("query superseded by a newer one")
)

// QueryError is the single failure surfaced for a query. Its message never
// says which sub-request failed or why.
type QueryError struct {
	Timeout bool
	cause   error
}

func newQueryError(cause error) *QueryError {
	return &QueryError{
		Timeout: errors.Is(cause, backend.ErrTimeout) || errors.Is(cause, context.DeadlineExceeded),
		cause:   cause,
	}
}

func (e *QueryError) Error() string {
	return ErrQuery.Error()
}

// Is matches ErrQuery, and ErrQueryTimeout when the query timed out.
func (e *QueryError) Is(target error) bool {
	return target == ErrQuery || (e.Timeout && target == ErrQueryTimeout)
}

// Unwrap exposes the underlying cause for logging.
func (e *QueryError) Unwrap() error {
	return e.cause
}
