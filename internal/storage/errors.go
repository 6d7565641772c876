package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
)

// ErrUnavailable reports that the store could not be reached. Callers are
// expected to switch to synthetic data rather than surface it.
var ErrUnavailable = errors.New("store unavailable")

// QueryError is returned when a reachable store rejects a specific query.
// It does not close the gate.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s failed: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// IsUnavailable reports whether err is a store-unavailable failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsQueryFailure reports whether err is a per-query failure.
func IsQueryFailure(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe)
}

// isConnectionFailure decides whether a driver error means the store
// itself is gone rather than the query being bad.
func isConnectionFailure(err error) bool {
	return errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded)
}
