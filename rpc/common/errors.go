package common

import (
	"errors"
	"fmt"
)

// --------------------------------------------------------------------------
// Error Taxonomy
// --------------------------------------------------------------------------

// The coordinator must be able to tell a broken connection apart from an
// operation the peer rejected: a transport failure makes the whole session
// unusable, a remote error only fails the one call. Both are therefore
// distinct error types instead of plain fmt errors.

// TransportError reports that the underlying connection failed (reset,
// closed mid-call, malformed frame). The connection must be treated as
// unusable after a TransportError.
type TransportError struct {
	Op  string // operation during which the failure occurred, e.g. "write frame"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps err as a connection-level failure.
func NewTransportError(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}

// IsTransportError reports whether err is (or wraps) a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// RemoteError carries the text of an error response returned by the peer.
// The connection itself is still usable after a RemoteError.
type RemoteError struct {
	Text string
}

func (e *RemoteError) Error() string {
	return e.Text
}

// NewRemoteError creates a RemoteError from an error response's text.
func NewRemoteError(text string) *RemoteError {
	return &RemoteError{Text: text}
}

// IsRemoteError reports whether err is (or wraps) a RemoteError.
func IsRemoteError(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}
