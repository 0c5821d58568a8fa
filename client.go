package imapflow

import "github.com/numbleroot/imapflow/wire"

// ClientEventKind discriminates the events ClientFlow.Progress can
// surface.
type ClientEventKind int

const (
	ClientCommandSent ClientEventKind = iota
	ClientCommandRejected
	ClientDataReceived
	ClientStatusReceived
	ClientContinuationReceived
	ClientContinuationAuthenticateReceived
	ClientAuthenticateStarted
	ClientAuthenticateAccepted
	ClientAuthenticateRejected
	ClientIdleCommandSent
	ClientIdleAccepted
	ClientIdleRejected
	ClientIdleDoneSent
)

// ClientEvent is one event surfaced by ClientFlow.Progress. Only the
// fields relevant to Kind are populated.
type ClientEvent struct {
	Kind         ClientEventKind
	Handle       CommandHandle
	Command      wire.Command
	Status       wire.Status
	Data         wire.Data
	Continuation wire.ContinuationRequest
}

// ClientFlow composes the client send and receive engines into one
// round-robin peer.
type ClientFlow struct {
	send    *sendCommandState
	receive *receiveState
	handles *HandleGenerator
	options ClientOptions
}

// ReceiveGreeting blocks until the server's greeting line arrives,
// then returns a ready-to-use ClientFlow sharing the same receive
// buffer (no bytes are lost if the server pipelines traffic right
// after the greeting).
func ReceiveGreeting(stream AnyStream, options ClientOptions) (*ClientFlow, wire.Greeting, error) {
	rs := newReceiveState(wire.GreetingDecoder{}, options.CRLFRelaxed)

	for {
		result, err := rs.Progress(stream)
		if err != nil {
			return nil, wire.Greeting{}, err
		}

		switch result.kind {
		case receiveSuccess:
			greeting := result.message.(wire.Greeting)
			rs.FinishMessage()
			rs.ChangeCodec(wire.ResponseDecoder{})
			cf := &ClientFlow{
				send:    newSendCommandState(),
				receive: rs,
				handles: NewHandleGenerator(),
				options: options,
			}
			return cf, greeting, nil

		case receiveCRLFError:
			discarded := rs.DiscardMessage()
			return nil, wire.Greeting{}, &ExpectedCRLFGotLFError{Discarded: discarded}

		default: // receiveFailed; LiteralFound cannot occur for a greeting
			discarded := rs.DiscardMessage()
			return nil, wire.Greeting{}, &MalformedMessageError{Discarded: discarded}
		}
	}
}

// EnqueueCommand pushes cmd to the send queue and returns its handle.
func (c *ClientFlow) EnqueueCommand(cmd wire.Command) CommandHandle {
	handle := NewCommandHandle(c.handles.Generate())
	c.send.Enqueue(handle, cmd)
	return handle
}

// SetAuthenticateData supplies the next SASL continuation value (or a
// cancellation). ok is false if no command is currently waiting for
// one (ErrIllegalState territory for careless embedders).
func (c *ClientFlow) SetAuthenticateData(data wire.AuthenticateData) (CommandHandle, bool) {
	return c.send.SetAuthenticateData(data)
}

// SetIdleDone requests transmission of DONE for the in-flight IDLE.
func (c *ClientFlow) SetIdleDone() (CommandHandle, bool) {
	return c.send.SetIdleDone()
}

// Progress drives one round: try send progress, try receive progress,
// return the first event that surfaces, otherwise loop.
func (c *ClientFlow) Progress(stream AnyStream) (ClientEvent, error) {
	for {
		sendEvent, err := c.send.Progress(stream)
		if err != nil {
			return ClientEvent{}, err
		}
		if ev, ok := translateSendEvent(sendEvent); ok {
			return ev, nil
		}

		recvResult, err := c.receive.Progress(stream)
		if err != nil {
			return ClientEvent{}, err
		}
		ev, surfaced, err := c.handleReceive(recvResult)
		if err != nil {
			return ClientEvent{}, err
		}
		if surfaced {
			return ev, nil
		}
	}
}

func translateSendEvent(e sendCommandEvent) (ClientEvent, bool) {
	switch e.kind {
	case sendCommandSent:
		return ClientEvent{Kind: ClientCommandSent, Handle: e.handle, Command: e.command}, true
	case sendAuthenticateStarted:
		return ClientEvent{Kind: ClientAuthenticateStarted, Handle: e.handle, Command: e.command}, true
	case sendIdleCommandSent:
		return ClientEvent{Kind: ClientIdleCommandSent, Handle: e.handle, Command: e.command}, true
	case sendIdleDoneSent:
		return ClientEvent{Kind: ClientIdleDoneSent, Handle: e.handle, Command: e.command}, true
	default:
		return ClientEvent{}, false
	}
}

func translateRemoveEvent(e removeEvent) (ClientEvent, bool) {
	switch e.kind {
	case removeCommandRejected:
		return ClientEvent{Kind: ClientCommandRejected, Handle: e.handle, Status: e.status}, true
	case removeAuthenticateAccepted:
		return ClientEvent{Kind: ClientAuthenticateAccepted, Handle: e.handle, Status: e.status}, true
	case removeAuthenticateRejected:
		return ClientEvent{Kind: ClientAuthenticateRejected, Handle: e.handle, Status: e.status}, true
	case removeIdleRejected:
		return ClientEvent{Kind: ClientIdleRejected, Handle: e.handle, Status: e.status}, true
	default:
		return ClientEvent{}, false
	}
}

func (c *ClientFlow) handleReceive(result receiveResult) (ClientEvent, bool, error) {
	switch result.kind {
	case receiveFailed:
		discarded := c.receive.DiscardMessage()
		return ClientEvent{}, false, &MalformedMessageError{Discarded: discarded}

	case receiveCRLFError:
		discarded := c.receive.DiscardMessage()
		return ClientEvent{}, false, &ExpectedCRLFGotLFError{Discarded: discarded}

	case receiveLiteralFound:
		// The response decoder never announces a literal (see
		// wire.Data's doc comment); guard defensively instead of
		// silently dropping bytes.
		discarded := c.receive.DiscardMessage()
		return ClientEvent{}, false, &MalformedMessageError{Discarded: discarded}

	case receiveSuccess:
		resp := result.message.(wire.Response)
		c.receive.FinishMessage()
		return c.routeResponse(resp)

	default:
		return ClientEvent{}, false, nil
	}
}

func (c *ClientFlow) routeResponse(resp wire.Response) (ClientEvent, bool, error) {
	switch resp.Kind {
	case wire.ResponseContinuationKind:
		switch {
		case c.send.awaitingLiteralAccepted():
			c.send.LiteralContinue()
			return ClientEvent{}, false, nil
		case c.send.awaitingAuthenticateResponse():
			c.send.AuthenticateContinue()
			handle, _ := c.send.CurrentHandle()
			return ClientEvent{Kind: ClientContinuationAuthenticateReceived, Handle: handle, Continuation: resp.Continuation}, true, nil
		case c.send.awaitingIdleResponse():
			c.send.IdleContinue()
			handle, _ := c.send.CurrentHandle()
			return ClientEvent{Kind: ClientIdleAccepted, Handle: handle, Continuation: resp.Continuation}, true, nil
		default:
			return ClientEvent{Kind: ClientContinuationReceived, Continuation: resp.Continuation}, true, nil
		}

	case wire.ResponseDataKind:
		return ClientEvent{Kind: ClientDataReceived, Data: resp.Data}, true, nil

	case wire.ResponseStatus:
		if resp.Status.Scope == wire.StatusTagged {
			if tag, ok := c.send.CurrentTag(); ok && tag == resp.Status.Tag {
				if removed := c.send.MaybeRemove(resp.Status); removed.kind != removeNone {
					ev, _ := translateRemoveEvent(removed)
					return ev, true, nil
				}
			}
		}
		return ClientEvent{Kind: ClientStatusReceived, Status: resp.Status}, true, nil

	default:
		return ClientEvent{}, false, nil
	}
}
