/*
Package imapflow implements the transport-level state machines for the
IMAP4rev1 protocol: a client and a server peer, each exposing an
event-driven Progress loop that multiplexes reading, writing, literal
negotiation, SASL AUTHENTICATE exchanges and IDLE transitions over a
single byte-stream connection.

The wire grammar itself lives in the sibling wire package. Response
routing on top of the client peer (matching responses to outstanding
commands, trickling unsolicited data through a chain of consumers) lives
in the scheduler package.
*/
package imapflow
