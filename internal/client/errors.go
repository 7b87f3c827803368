package client

import (
	"errors"
	"fmt"
)

// ClientError is satisfied by every error this package returns, so callers
// can match the whole family at once or a single kind via errors.As.
type ClientError interface {
	error
	clientError()
}

// ConnectionError means the server was unreachable: DNS failure, refused
// connection, or a timeout establishing/reading the connection. The
// streaming loops and WaitForProducer retry on this kind and only this kind.
type ConnectionError struct {
	Target string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s: %v", e.Target, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }
func (e *ConnectionError) clientError() {}

// ProtocolError means the server answered with a non-2xx status. This is a
// remote failure, not a connectivity failure, and is never retried.
type ProtocolError struct {
	StatusCode int
	Reason     string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("HTTP error %d: %s", e.StatusCode, e.Reason)
}

func (e *ProtocolError) clientError() {}

// DecodeError means the response body was not valid JSON or lacked the
// structure needed to build a snapshot.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
func (e *DecodeError) clientError() {}

// IsClientError reports whether err came from this package.
func IsClientError(err error) bool {
	var ce ClientError
	return errors.As(err, &ce)
}

// IsConnectionError reports whether err is a transport-level failure that
// the polling loops treat as transient.
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}
