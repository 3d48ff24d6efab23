package remote

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned for calls issued before a connection exists.
var ErrNotConnected = errors.New("not connected")

// ConnectionError reports a failure to establish or verify a connection.
type ConnectionError struct {
	Address string
	Err     error
}

func (e *ConnectionError) Error() string {
	if e.Address == "" {
		return fmt.Sprintf("connect: %v", e.Err)
	}
	return fmt.Sprintf("connect %s: %v", e.Address, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// RequestError reports a single failed remote call.
type RequestError struct {
	Op     string
	Target string
	Err    error
}

func (e *RequestError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ValidationError is a local input problem detected before any call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Cause returns the innermost message of err, suitable for banners where the
// operation is already named by the surrounding text.
func Cause(err error) string {
	if err == nil {
		return ""
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Err != nil {
		return reqErr.Err.Error()
	}
	var connErr *ConnectionError
	if errors.As(err, &connErr) && connErr.Err != nil {
		return connErr.Err.Error()
	}
	return err.Error()
}
