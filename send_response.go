package imapflow

import "github.com/numbleroot/imapflow/wire"

// sendResponseState is the server send engine: one in-flight response,
// a FIFO queue, a single reused write buffer, no sub-states. Unlike
// the client side it never waits mid-flush: both Line and Literal
// fragments are pushed unconditionally.
type sendResponseState struct {
	queue    []queuedResponse
	current  *inFlightResponse
	writeBuf []byte
}

type queuedResponse struct {
	// handle is nil for internally-injected responses (literal
	// accept/reject status lines), which must never reach the embedder.
	handle   *ResponseHandle
	response wire.Response
}

type inFlightResponse struct {
	handle   *ResponseHandle
	response wire.Response
}

func newSendResponseState() *sendResponseState {
	return &sendResponseState{}
}

// Enqueue pushes an embedder-originated response, surfaced on
// completion as ResponseSent.
func (s *sendResponseState) Enqueue(handle ResponseHandle, resp wire.Response) {
	s.queue = append(s.queue, queuedResponse{handle: &handle, response: resp})
}

// EnqueueInternal pushes a core-originated response (literal
// accept/reject) that must never surface as ResponseSent.
func (s *sendResponseState) EnqueueInternal(resp wire.Response) {
	s.queue = append(s.queue, queuedResponse{handle: nil, response: resp})
}

// sentResponse is returned by Progress on completion of one response.
type sentResponse struct {
	handle   *ResponseHandle
	response wire.Response
}

// Progress flushes the next queued response in full and reports it.
// Returns ok=false when the queue is empty (suspended).
func (s *sendResponseState) Progress(stream AnyStream) (sentResponse, bool, error) {
	if s.current == nil {
		if len(s.queue) == 0 {
			return sentResponse{}, false, nil
		}
		head := s.queue[0]
		s.queue = s.queue[1:]
		s.current = &inFlightResponse{handle: head.handle, response: head.response}

		for _, frag := range wire.ResponseCodec{}.Encode(head.response) {
			s.writeBuf = append(s.writeBuf, frag.Data...)
		}
	}

	if err := stream.WriteAll(s.writeBuf); err != nil {
		return sentResponse{}, false, newStreamError(err)
	}
	s.writeBuf = nil

	sent := sentResponse{handle: s.current.handle, response: s.current.response}
	s.current = nil
	return sent, true, nil
}
