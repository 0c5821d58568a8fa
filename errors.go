package imapflow

import (
	"fmt"

	"github.com/pkg/errors"
)

// StreamError wraps an I/O failure from the underlying AnyStream. It is
// always fatal: the peer that returns it is terminal and must be
// dropped.
type StreamError struct {
	cause error
}

func newStreamError(cause error) *StreamError {
	return &StreamError{cause: errors.Wrap(cause, "imapflow: stream failure")}
}

func (e *StreamError) Error() string { return e.cause.Error() }
func (e *StreamError) Unwrap() error { return e.cause }

// MalformedMessageError reports a decode failure. The peer remains
// usable; the offending bytes are kept for diagnostics.
type MalformedMessageError struct {
	Discarded []byte
}

func (e *MalformedMessageError) Error() string {
	return fmt.Sprintf("imapflow: malformed message, discarded %d byte(s)", len(e.Discarded))
}

// ExpectedCRLFGotLFError reports a bare LF seen with CRLF-strict parsing
// enabled. The peer remains usable.
type ExpectedCRLFGotLFError struct {
	Discarded []byte
}

func (e *ExpectedCRLFGotLFError) Error() string {
	return fmt.Sprintf("imapflow: expected CRLF, got bare LF, discarded %d byte(s)", len(e.Discarded))
}

// LiteralTooLongError is returned by the server when an announced
// literal exceeds ServerOptions.MaxLiteralSize. The server has already
// enqueued a NO response and continues serving the connection.
type LiteralTooLongError struct {
	Discarded []byte
}

func (e *LiteralTooLongError) Error() string {
	return fmt.Sprintf("imapflow: literal too long, discarded %d byte(s)", len(e.Discarded))
}

// ErrIllegalState is returned when the embedder calls a ServerFlow
// method that is not legal in the current receive state (e.g.
// AuthenticateContinue outside ExpectingAuthenticateData). This is a
// programming error surfaced as a typed error rather than a panic, so
// an embedder can log and drop the call instead of crashing the
// process.
var ErrIllegalState = errors.New("imapflow: illegal state for requested transition")
