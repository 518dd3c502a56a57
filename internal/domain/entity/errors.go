package entity

import (
	"errors"
	"fmt"
	"time"
)

// NotFoundError indicates no qualifying observation exists for the query.
// It is a data-availability gap, not a transport failure, and the two must
// never be conflated: callers may fall back or report unavailability for a
// NotFoundError, but must treat a RemoteError as retryable.
type NotFoundError struct {
	SeriesID string
	Start    time.Time
	End      time.Time
}

func (e *NotFoundError) Error() string {
	if e.Start.IsZero() && e.End.IsZero() {
		return fmt.Sprintf("no published observation available for series %s", e.SeriesID)
	}
	return fmt.Sprintf("no observation for series %s between %s and %s",
		e.SeriesID, e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

// RemoteError indicates the remote data source could not be queried:
// transport, authentication, or service failure
type RemoteError struct {
	SeriesID   string
	StatusCode int
	Err        error
}

func (e *RemoteError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("remote source returned status %d for series %s", e.StatusCode, e.SeriesID)
	case e.Err != nil:
		return fmt.Sprintf("remote fetch failed for series %s: %v", e.SeriesID, e.Err)
	default:
		return fmt.Sprintf("remote fetch failed for series %s", e.SeriesID)
	}
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// InvalidInputError indicates a malformed query. It is always raised before
// any remote call is attempted.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsNotFound reports whether err is (or wraps) a data-availability gap
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsRemote reports whether err is (or wraps) a remote fetch failure
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}

// IsInvalidInput reports whether err is (or wraps) an input validation failure
func IsInvalidInput(err error) bool {
	var ie *InvalidInputError
	return errors.As(err, &ie)
}
