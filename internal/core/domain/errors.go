package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrRouteNotFound means the requested bus route does not exist.
	ErrRouteNotFound = errors.New("bus route not found")

	// ErrNoSeatsAvailable means the soft seat counter reports the route as
	// full. The caller may retry later; the counter re-seeds on expiry.
	ErrNoSeatsAvailable = errors.New("no seats available")

	// ErrReservationInProgress means another requester holds the lock for
	// the same seat-count snapshot. Retrying usually observes a new count.
	ErrReservationInProgress = errors.New("another transaction is in progress")

	// ErrUnknownTransaction means a settlement referenced a transaction id
	// with no booking behind it. Treated as an integrity error, never
	// silently accepted.
	ErrUnknownTransaction = errors.New("unknown transaction")

	// ErrDuplicateTransaction means a transaction id collided on insert.
	// The generation scheme makes this unreachable; surface for
	// investigation if it happens.
	ErrDuplicateTransaction = errors.New("duplicate transaction id")
)

// GatewayError wraps a failure talking to the payment provider. The
// reservation is always rolled back before one of these is returned.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
