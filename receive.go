package imapflow

import "github.com/numbleroot/imapflow/wire"

// receiveKind discriminates the conclusive outcomes receiveState.Progress
// can surface to a peer. Incomplete is never surfaced: the engine
// retries internally until more decisive bytes arrive.
type receiveKind int

const (
	receiveSuccess receiveKind = iota
	receiveLiteralFound
	receiveFailed
	receiveCRLFError
)

// receiveResult is one decode outcome surfaced by receiveState.Progress.
type receiveResult struct {
	kind    receiveKind
	message any

	// Valid when kind == receiveLiteralFound.
	tag    wire.Tag
	length uint32
	mode   wire.LiteralMode
}

// receiveState is one peer's framed-decode state: an accumulating read
// buffer, the currently active decoder, a current literal-expected-byte-
// count (0 when reading a line), and the CRLF-relaxation policy.
type receiveState struct {
	decoder     wire.Decoder
	crlfRelaxed bool

	buf             []byte
	literalExpected int
	literalsStarted int
	pendingConsumed int
}

func newReceiveState(decoder wire.Decoder, crlfRelaxed bool) *receiveState {
	return &receiveState{decoder: decoder, crlfRelaxed: crlfRelaxed}
}

// ChangeCodec swaps the active decoder in place, keeping the
// accumulated read buffer. Used by the server to move between
// ExpectingCommand and ExpectingAuthenticateData.
func (r *receiveState) ChangeCodec(decoder wire.Decoder) {
	r.decoder = decoder
	r.literalsStarted = 0
}

// Progress reads from stream, then decodes. While a literal is pending
// it reads until the buffer holds at least as many bytes as the
// literal's length (the buffer length, not the bytes after the literal
// header), so the decoder can still run before the whole literal has
// arrived and report Incomplete. It reads and retries internally on
// Incomplete, surfacing only a conclusive outcome: a decoded message, a
// freshly announced literal, or a decode failure.
func (r *receiveState) Progress(stream AnyStream) (receiveResult, error) {
	readBuf := make([]byte, 4096)

	for {
		if r.literalExpected > 0 {
			if len(r.buf) < r.literalExpected {
				if err := r.readMore(stream, readBuf); err != nil {
					return receiveResult{}, err
				}
				continue
			}
			r.literalExpected = 0
		}

		result := r.decoder.Decode(r.buf, r.literalsStarted, r.crlfRelaxed)
		switch result.Outcome {
		case wire.Incomplete:
			if err := r.readMore(stream, readBuf); err != nil {
				return receiveResult{}, err
			}
		case wire.Success:
			r.pendingConsumed = result.Consumed
			return receiveResult{kind: receiveSuccess, message: result.Message}, nil
		case wire.LiteralFound:
			return receiveResult{
				kind:   receiveLiteralFound,
				tag:    result.Tag,
				length: result.Length,
				mode:   result.Mode,
			}, nil
		case wire.CRLFError:
			return receiveResult{kind: receiveCRLFError}, nil
		default: // wire.Failed
			return receiveResult{kind: receiveFailed}, nil
		}
	}
}

func (r *receiveState) readMore(stream AnyStream, scratch []byte) error {
	n, err := stream.Read(scratch)
	if n > 0 {
		r.buf = append(r.buf, scratch[:n]...)
	}
	if err != nil {
		return newStreamError(err)
	}
	return nil
}

// FinishMessage discards the most recently decoded message's bytes
// from the buffer; any trailing bytes remain for the next call. Also
// resets the per-message literal-header counter.
func (r *receiveState) FinishMessage() {
	r.buf = append([]byte(nil), r.buf[r.pendingConsumed:]...)
	r.pendingConsumed = 0
	r.literalsStarted = 0
}

// StartLiteral accepts an announced literal of length bytes: the
// engine reads until the buffer holds at least that many bytes before
// resuming decode, and the literal is counted so the decoder does not
// re-announce it.
func (r *receiveState) StartLiteral(length uint32) {
	r.literalExpected = int(length)
	r.literalsStarted++
}

// DiscardMessage drops the entire buffered, undecodable message and
// returns its bytes for diagnostics.
func (r *receiveState) DiscardMessage() []byte {
	discarded := r.buf
	r.buf = nil
	r.literalExpected = 0
	r.literalsStarted = 0
	r.pendingConsumed = 0
	return discarded
}
