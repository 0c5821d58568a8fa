package imapflow

import "github.com/numbleroot/imapflow/wire"

// ServerReceiveState reports which message kind the server is
// currently decoding.
type ServerReceiveState int

const (
	ExpectingCommand ServerReceiveState = iota
	ExpectingAuthenticateData
)

// ServerFlowEventKind discriminates the events ServerFlow.Progress can
// surface.
type ServerFlowEventKind int

const (
	ServerCommandReceived ServerFlowEventKind = iota
	ServerCommandAuthenticateReceived
	ServerAuthenticateDataReceived
	ServerResponseSent
)

// ServerFlowEvent is one event surfaced by ServerFlow.Progress. Only
// the fields relevant to Kind are populated.
type ServerFlowEvent struct {
	Kind     ServerFlowEventKind
	Handle   ResponseHandle
	Command  wire.Command
	Data     wire.AuthenticateData
	Response wire.Response
}

// ServerFlow composes the server send and receive engines, plus the
// ExpectingCommand/ExpectingAuthenticateData codec-swap dance.
type ServerFlow struct {
	send    *sendResponseState
	receive *receiveState
	handles *HandleGenerator
	options ServerOptions

	state ServerReceiveState

	greetingBuf  []byte
	greetingSent bool
}

// NewServerFlow constructs a ServerFlow with greeting queued but not
// yet written: construction never performs I/O (a two-phase handshake
// favored over a blocking constructor), the first call to Progress
// writes it.
func NewServerFlow(options ServerOptions, greeting wire.Greeting) *ServerFlow {
	frag := wire.GreetingCodec{}.Encode(greeting)
	return &ServerFlow{
		send:        newSendResponseState(),
		receive:     newReceiveState(wire.CommandDecoder{}, options.CRLFRelaxed),
		handles:     NewHandleGenerator(),
		options:     options,
		state:       ExpectingCommand,
		greetingBuf: frag.Data,
	}
}

// NextExpectedMessage reports which message kind the server is
// currently decoding.
func (s *ServerFlow) NextExpectedMessage() ServerReceiveState {
	return s.state
}

// EnqueueData queues an untagged data response.
func (s *ServerFlow) EnqueueData(data wire.Data) ResponseHandle {
	handle := NewResponseHandle(s.handles.Generate())
	s.send.Enqueue(handle, wire.Response{Kind: wire.ResponseDataKind, Data: data})
	return handle
}

// EnqueueStatus queues a tagged or untagged status response.
func (s *ServerFlow) EnqueueStatus(status wire.Status) ResponseHandle {
	handle := NewResponseHandle(s.handles.Generate())
	s.send.Enqueue(handle, wire.Response{Kind: wire.ResponseStatus, Status: status})
	return handle
}

// EnqueueContinuation queues a "+" continuation request.
func (s *ServerFlow) EnqueueContinuation(cont wire.ContinuationRequest) ResponseHandle {
	handle := NewResponseHandle(s.handles.Generate())
	s.send.Enqueue(handle, wire.Response{Kind: wire.ResponseContinuationKind, Continuation: cont})
	return handle
}

// AuthenticateContinue queues a continuation request asking the client
// for another piece of SASL data. Legal only in
// ExpectingAuthenticateData.
func (s *ServerFlow) AuthenticateContinue(cont wire.ContinuationRequest) error {
	if s.state != ExpectingAuthenticateData {
		return ErrIllegalState
	}
	handle := NewResponseHandle(s.handles.Generate())
	s.send.Enqueue(handle, wire.Response{Kind: wire.ResponseContinuationKind, Continuation: cont})
	return nil
}

// AuthenticateFinish ends the AUTHENTICATE sub-dialogue with status
// (accepted or rejected), switching the receive state back to
// ExpectingCommand. Legal only in ExpectingAuthenticateData.
func (s *ServerFlow) AuthenticateFinish(status wire.Status) (ResponseHandle, error) {
	if s.state != ExpectingAuthenticateData {
		return ResponseHandle{}, ErrIllegalState
	}
	s.state = ExpectingCommand
	s.receive.ChangeCodec(wire.CommandDecoder{})
	handle := NewResponseHandle(s.handles.Generate())
	s.send.Enqueue(handle, wire.Response{Kind: wire.ResponseStatus, Status: status})
	return handle, nil
}

// Progress drives one round: flush the greeting if not yet sent, drain
// pending responses, then attempt a decode.
func (s *ServerFlow) Progress(stream AnyStream) (ServerFlowEvent, error) {
	for {
		if !s.greetingSent {
			if err := stream.WriteAll(s.greetingBuf); err != nil {
				return ServerFlowEvent{}, newStreamError(err)
			}
			s.greetingSent = true
			s.greetingBuf = nil
		}

		sent, ok, err := s.send.Progress(stream)
		if err != nil {
			return ServerFlowEvent{}, err
		}
		if ok {
			if sent.handle != nil {
				return ServerFlowEvent{Kind: ServerResponseSent, Handle: *sent.handle, Response: sent.response}, nil
			}
			continue
		}

		recvResult, err := s.receive.Progress(stream)
		if err != nil {
			return ServerFlowEvent{}, err
		}
		ev, surfaced, err := s.handleReceive(recvResult)
		if err != nil {
			return ServerFlowEvent{}, err
		}
		if surfaced {
			return ev, nil
		}
	}
}

func (s *ServerFlow) handleReceive(result receiveResult) (ServerFlowEvent, bool, error) {
	switch result.kind {
	case receiveFailed:
		discarded := s.receive.DiscardMessage()
		return ServerFlowEvent{}, false, &MalformedMessageError{Discarded: discarded}

	case receiveCRLFError:
		discarded := s.receive.DiscardMessage()
		return ServerFlowEvent{}, false, &ExpectedCRLFGotLFError{Discarded: discarded}

	case receiveLiteralFound:
		if result.length > s.options.MaxLiteralSize {
			discarded := s.receive.DiscardMessage()
			s.send.EnqueueInternal(wire.Response{Kind: wire.ResponseStatus, Status: wire.Status{
				Scope: wire.StatusTagged,
				Tag:   result.tag,
				Kind:  wire.StatusNO,
				Text:  s.options.LiteralRejectText,
			}})
			return ServerFlowEvent{}, false, &LiteralTooLongError{Discarded: discarded}
		}
		s.send.EnqueueInternal(wire.Response{Kind: wire.ResponseContinuationKind, Continuation: wire.ContinuationRequest{Text: s.options.LiteralAcceptText}})
		s.receive.StartLiteral(result.length)
		return ServerFlowEvent{}, false, nil

	case receiveSuccess:
		return s.handleDecoded(result.message)

	default:
		return ServerFlowEvent{}, false, nil
	}
}

func (s *ServerFlow) handleDecoded(message any) (ServerFlowEvent, bool, error) {
	switch s.state {
	case ExpectingCommand:
		cmd := message.(wire.Command)
		s.receive.FinishMessage()
		if cmd.IsAuthenticate() {
			s.state = ExpectingAuthenticateData
			s.receive.ChangeCodec(wire.AuthenticateDataDecoder{})
			return ServerFlowEvent{Kind: ServerCommandAuthenticateReceived, Command: cmd}, true, nil
		}
		return ServerFlowEvent{Kind: ServerCommandReceived, Command: cmd}, true, nil

	case ExpectingAuthenticateData:
		data := message.(wire.AuthenticateData)
		s.receive.FinishMessage()
		return ServerFlowEvent{Kind: ServerAuthenticateDataReceived, Data: data}, true, nil

	default:
		return ServerFlowEvent{}, false, nil
	}
}
