package upstream

import (
	"errors"
	"fmt"
)

// ErrFetchFailure matches every FetchError via errors.Is.
var ErrFetchFailure = errors.New("upstream fetch failure")

// FetchError reports a failed upstream call: a transport error, a non-2xx
// status, or a body that is oversized or not valid JSON. StatusCode is 0
// unless the status was the cause.
type FetchError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrFetchFailure) true for any FetchError.
func (e *FetchError) Is(target error) bool { return target == ErrFetchFailure }
