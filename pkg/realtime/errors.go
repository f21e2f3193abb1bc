package realtime

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrReconnectInProgress reports a reconnect request that was not performed
// because another reconnect sequence already holds the slot.
var ErrReconnectInProgress = errors.New("reconnect already in progress")

var (
	errClientClosed = errors.New("client closed")
	errNoSession    = errors.New("no active session")
)

// ConnectionError reports a handshake or connector failure after the retry
// budget was exhausted, or an operation on a connection that could not be
// recovered. Status and Header carry the handshake response when the
// transport exposed one.
type ConnectionError struct {
	Status int
	Header http.Header
	Err    error
}

func (e *ConnectionError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("realtime connection failed (status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("realtime connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// DecodeError reports an inbound text frame that could not be decoded into
// a known message shape. It never triggers a reconnect.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode server message: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
