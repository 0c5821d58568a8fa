/*
Package wire implements the minimal IMAP4rev1 grammar used by imapflow: it
turns commands, responses, greetings, AUTHENTICATE continuation data and
IDLE DONE into an ordered Line/Literal fragment stream, and decodes bytes
read off the wire back into the same message types.

This is deliberately not a general-purpose IMAP parser. Mailbox command
semantics (SELECT, FETCH, STORE, ...) are out of scope; wire only needs to
recognize enough syntax to find command/response boundaries, tags, status
kinds and literal announcements so that the state machines in the parent
package can drive the synchronizing-literal, AUTHENTICATE and IDLE
sub-dialogues correctly.
*/
package wire
