// Package upstream talks to the third-party prediction, weather and
// routing services, and gates calls on their recent liveness.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// ErrUnavailable means the health gate reported the service down and
// the call was short-circuited without being attempted.
var ErrUnavailable = errors.New("upstream unavailable")

// TimeoutError means a call exceeded its timeout budget and was
// aborted via context cancellation.
type TimeoutError struct {
	Service string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: request timed out after %s", e.Service, e.Timeout)
}

// ResponseError means the service answered with a non-success status
// or a payload that could not be decoded.
type ResponseError struct {
	Service    string
	StatusCode int
	Reason     string
}

func (e *ResponseError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status code: %d - %s", e.Service, e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("%s: bad response: %s", e.Service, e.Reason)
}

// classify translates transport errors into the typed taxonomy so
// callers can tell timeout from network failure.
func classify(service string, timeout time.Duration, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Service: service, Timeout: timeout}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Service: service, Timeout: timeout}
	}
	return fmt.Errorf("%s: %w", service, err)
}
