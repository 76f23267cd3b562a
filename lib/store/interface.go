package store

import (
	"fmt"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("store")

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// ISink receives every decoded message payload of the receiver.
// Implementations are shared between connections and must be safe for concurrent use.
// Store must not block indefinitely, since the session that delivered the payload
// waits for it before the acknowledgment is written.
type ISink interface {
	// Store persists an opaque payload and returns a stable identifier for it.
	Store(payload []byte) (id string, err error)
	// GetName returns the name of the sink type (e.g. "file", "memory")
	GetName() string
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode),
// a message and the underlying cause.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message
	Err  error   // The cause, may be nil
}

// Error implements the error interface.
func (e *Error) Error() string {
	errorCode := ""
	switch e.Code {
	case RetCInternalError:
		errorCode = "InternalError"
	case RetCInvalidOperation:
		errorCode = "InvalidOperation"
	default:
		errorCode = "Unknown"
	}

	if e.Err != nil {
		return fmt.Sprintf("SinkError (code %s): %s: %v", errorCode, e.Msg, e.Err)
	}
	return fmt.Sprintf("SinkError (code %s): %s", errorCode, e.Msg)
}

// Unwrap returns the cause
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new sink error with the given code, message and cause.
func NewError(code RetCode, msg string, cause error) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
		Err:  cause,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess          RetCode = iota // 0: Payload stored successfully.
	RetCInternalError                   // 1: Storing failed due to an internal (I/O) error.
	RetCInvalidOperation                // 2: Invalid operation (e.g. sink closed).
)
