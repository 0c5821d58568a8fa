// Package sasl drives the client side of one SASL mechanism's
// challenge/response exchange, wrapped for use by
// scheduler.AuthenticateTask via ProcessContinuationAuthenticate.
package sasl

// Client drives one mechanism's challenge/response exchange. Step is
// called with the base64-decoded bytes of each server continuation; it
// returns the next response to send, or done=true once no further
// continuation is expected.
type Client interface {
	// Mechanism is the SASL mechanism name sent in "AUTHENTICATE
	// <mechanism>".
	Mechanism() string
	// InitialResponse is the SASL-IR initial response to send inline
	// with the AUTHENTICATE command, or nil if this mechanism has none.
	InitialResponse() []byte
	// Step consumes one server challenge and produces the next client
	// response. done reports whether the client considers the exchange
	// complete (the server's tagged completion status is still
	// authoritative).
	Step(challenge []byte) (response []byte, done bool, err error)
}
