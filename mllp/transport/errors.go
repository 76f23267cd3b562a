package transport

import (
	"fmt"
	"time"
)

// ConnectionError is returned when the peer could not be reached, refused or reset
// the connection, or a write failed.
type ConnectionError struct {
	Endpoint string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to %s failed: %v", e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// TimeoutError is returned when the response deadline expired before a single
// response byte arrived.
type TimeoutError struct {
	Endpoint string
	Limit    time.Duration // the response timeout that expired
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("no response from %s within %s", e.Endpoint, e.Limit)
}

// Timeout reports true, so TimeoutError satisfies net.Error style checks
func (e *TimeoutError) Timeout() bool {
	return true
}

// IncompleteResponseError is returned when the connection was closed before a
// complete acknowledgment frame arrived, or the deadline expired after part of it.
type IncompleteResponseError struct {
	Endpoint string
	Received int // response bytes buffered when the session ended
	Err      error
}

func (e *IncompleteResponseError) Error() string {
	return fmt.Sprintf("incomplete response from %s (%d bytes buffered): %v", e.Endpoint, e.Received, e.Err)
}

func (e *IncompleteResponseError) Unwrap() error {
	return e.Err
}
