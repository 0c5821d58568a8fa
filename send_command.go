package imapflow

import "github.com/numbleroot/imapflow/wire"

// commandKind discriminates the three command sub-dialogues a client
// can have in flight: Regular, Authenticate or Idle.
type commandKind int

const (
	commandRegular commandKind = iota
	commandAuthenticate
	commandIdle
)

type regularPhase int

const (
	regularPushing regularPhase = iota
	regularWaitingFragmentsSent
	regularWaitingLiteralAccepted
)

type authenticatePhase int

const (
	authPushingLine authenticatePhase = iota
	authWaitingSent
	authWaitingResponse
	authWaitingDataSet
	authPushingData
	authWaitingDataSent
)

type idlePhase int

const (
	idlePushing idlePhase = iota
	idleWaitingSent
	idleWaitingResponse
	idleWaitingDoneSet
	idlePushingDone
	idleWaitingDoneSent
)

// inFlightCommand is the client's current-send state: at most one
// exists at a time, and it is never left nil across a suspension point
// once pushing has begun (cancellation safety).
type inFlightCommand struct {
	kind    commandKind
	handle  CommandHandle
	command wire.Command

	// Regular
	regularPhase regularPhase
	fragments    []wire.Fragment
	limboLiteral *wire.Fragment

	// Authenticate
	authPhase authenticatePhase

	// Idle
	idlePhase idlePhase
}

func newInFlightCommand(handle CommandHandle, cmd wire.Command) *inFlightCommand {
	c := &inFlightCommand{handle: handle, command: cmd}
	switch {
	case cmd.IsAuthenticate():
		c.kind = commandAuthenticate
	case cmd.IsIdle():
		c.kind = commandIdle
	default:
		c.kind = commandRegular
		c.fragments = wire.CommandCodec{}.Encode(cmd)
	}
	return c
}

type sendCommandKind int

const (
	sendNone sendCommandKind = iota
	sendCommandSent
	sendAuthenticateStarted
	sendIdleCommandSent
	sendIdleDoneSent
)

// sendCommandEvent is produced by sendCommandState.Progress.
type sendCommandEvent struct {
	kind    sendCommandKind
	handle  CommandHandle
	command wire.Command
}

type removeKind int

const (
	removeNone removeKind = iota
	removeCommandRejected
	removeAuthenticateAccepted
	removeAuthenticateRejected
	removeIdleRejected
)

// removeEvent is produced by sendCommandState.MaybeRemove.
type removeEvent struct {
	kind   removeKind
	handle CommandHandle
	status wire.Status
}

// sendCommandState is the client send engine: one FIFO of queued
// commands, at most one in flight, a single reused write buffer.
type sendCommandState struct {
	queue    []queuedCommand
	current  *inFlightCommand
	writeBuf []byte
}

type queuedCommand struct {
	handle  CommandHandle
	command wire.Command
}

func newSendCommandState() *sendCommandState {
	return &sendCommandState{}
}

// Enqueue pushes a command to the back of the FIFO.
func (s *sendCommandState) Enqueue(handle CommandHandle, cmd wire.Command) {
	s.queue = append(s.queue, queuedCommand{handle: handle, command: cmd})
}

// Progress drives one step of the in-flight command, blocking on at
// most the flushes required to make forward progress. It loops
// internally across non-suspending transitions (picking up the next
// queued command, moving between pushing phases) the same way the
// receive engine retries on Incomplete.
func (s *sendCommandState) Progress(stream AnyStream) (sendCommandEvent, error) {
	for {
		if s.current == nil {
			if len(s.queue) == 0 {
				return sendCommandEvent{}, nil
			}
			head := s.queue[0]
			s.queue = s.queue[1:]
			s.current = newInFlightCommand(head.handle, head.command)
		}

		switch s.current.kind {
		case commandRegular:
			event, suspend, err := s.progressRegular(stream)
			if err != nil || suspend {
				return event, err
			}
			if event.kind != sendNone {
				return event, nil
			}
		case commandAuthenticate:
			event, suspend, err := s.progressAuthenticate(stream)
			if err != nil || suspend {
				return event, err
			}
			if event.kind != sendNone {
				return event, nil
			}
		case commandIdle:
			event, suspend, err := s.progressIdle(stream)
			if err != nil || suspend {
				return event, err
			}
			if event.kind != sendNone {
				return event, nil
			}
		}
	}
}

func (s *sendCommandState) progressRegular(stream AnyStream) (sendCommandEvent, bool, error) {
	cur := s.current

	switch cur.regularPhase {
	case regularPushing:
		for len(cur.fragments) > 0 {
			f := cur.fragments[0]
			if f.Kind == wire.FragmentLiteral && f.Mode == wire.Sync {
				lit := f
				cur.limboLiteral = &lit
				cur.fragments = cur.fragments[1:]
				break
			}
			s.writeBuf = append(s.writeBuf, f.Data...)
			cur.fragments = cur.fragments[1:]
		}
		cur.regularPhase = regularWaitingFragmentsSent
		return sendCommandEvent{}, false, nil

	case regularWaitingFragmentsSent:
		if len(s.writeBuf) > 0 {
			if err := stream.WriteAll(s.writeBuf); err != nil {
				return sendCommandEvent{}, true, newStreamError(err)
			}
			s.writeBuf = nil
		}
		if cur.limboLiteral == nil {
			event := sendCommandEvent{kind: sendCommandSent, handle: cur.handle, command: cur.command}
			s.current = nil
			return event, false, nil
		}
		cur.regularPhase = regularWaitingLiteralAccepted
		return sendCommandEvent{}, true, nil

	case regularWaitingLiteralAccepted:
		// Suspended until LiteralContinue or MaybeRemove observes a
		// matching tagged rejection.
		return sendCommandEvent{}, true, nil
	}
	return sendCommandEvent{}, true, nil
}

// LiteralContinue resumes pushing after the server has acknowledged a
// Sync literal. Returns false if called outside
// regularWaitingLiteralAccepted.
func (s *sendCommandState) LiteralContinue() bool {
	cur := s.current
	if cur == nil || cur.kind != commandRegular || cur.regularPhase != regularWaitingLiteralAccepted {
		return false
	}
	s.writeBuf = append(s.writeBuf, cur.limboLiteral.Data...)
	cur.limboLiteral = nil
	cur.regularPhase = regularPushing
	return true
}

func (s *sendCommandState) progressAuthenticate(stream AnyStream) (sendCommandEvent, bool, error) {
	cur := s.current

	switch cur.authPhase {
	case authPushingLine:
		f := wire.CommandCodec{}.Encode(cur.command)
		for _, frag := range f {
			s.writeBuf = append(s.writeBuf, frag.Data...)
		}
		cur.authPhase = authWaitingSent
		return sendCommandEvent{}, false, nil

	case authWaitingSent:
		if err := stream.WriteAll(s.writeBuf); err != nil {
			return sendCommandEvent{}, true, newStreamError(err)
		}
		s.writeBuf = nil
		cur.authPhase = authWaitingResponse
		return sendCommandEvent{kind: sendAuthenticateStarted, handle: cur.handle, command: cur.command}, false, nil

	case authWaitingResponse:
		return sendCommandEvent{}, true, nil

	case authWaitingDataSet:
		return sendCommandEvent{}, true, nil

	case authPushingData:
		if err := stream.WriteAll(s.writeBuf); err != nil {
			return sendCommandEvent{}, true, newStreamError(err)
		}
		s.writeBuf = nil
		cur.authPhase = authWaitingResponse
		return sendCommandEvent{}, false, nil
	}
	return sendCommandEvent{}, true, nil
}

// AuthenticateContinue is called when a continuation request arrives
// while in authWaitingResponse. Legal only there.
func (s *sendCommandState) AuthenticateContinue() bool {
	cur := s.current
	if cur == nil || cur.kind != commandAuthenticate || cur.authPhase != authWaitingResponse {
		return false
	}
	cur.authPhase = authWaitingDataSet
	return true
}

// SetAuthenticateData supplies the next piece of SASL continuation
// data (or a cancellation). Legal only in authWaitingDataSet.
func (s *sendCommandState) SetAuthenticateData(data wire.AuthenticateData) (CommandHandle, bool) {
	cur := s.current
	if cur == nil || cur.kind != commandAuthenticate || cur.authPhase != authWaitingDataSet {
		return CommandHandle{}, false
	}
	frag := wire.AuthenticateDataCodec{}.Encode(data)
	s.writeBuf = append(s.writeBuf, frag.Data...)
	cur.authPhase = authPushingData
	return cur.handle, true
}

func (s *sendCommandState) progressIdle(stream AnyStream) (sendCommandEvent, bool, error) {
	cur := s.current

	switch cur.idlePhase {
	case idlePushing:
		s.writeBuf = append(s.writeBuf, []byte(cur.command.Tag+" IDLE\r\n")...)
		cur.idlePhase = idleWaitingSent
		return sendCommandEvent{}, false, nil

	case idleWaitingSent:
		if err := stream.WriteAll(s.writeBuf); err != nil {
			return sendCommandEvent{}, true, newStreamError(err)
		}
		s.writeBuf = nil
		cur.idlePhase = idleWaitingResponse
		return sendCommandEvent{kind: sendIdleCommandSent, handle: cur.handle, command: cur.command}, false, nil

	case idleWaitingResponse:
		return sendCommandEvent{}, true, nil

	case idleWaitingDoneSet:
		return sendCommandEvent{}, true, nil

	case idlePushingDone:
		if err := stream.WriteAll(s.writeBuf); err != nil {
			return sendCommandEvent{}, true, newStreamError(err)
		}
		s.writeBuf = nil
		event := sendCommandEvent{kind: sendIdleDoneSent, handle: cur.handle, command: cur.command}
		s.current = nil
		return event, false, nil
	}
	return sendCommandEvent{}, true, nil
}

// IdleContinue is called when a continuation request arrives while in
// idleWaitingResponse. Legal only there.
func (s *sendCommandState) IdleContinue() bool {
	cur := s.current
	if cur == nil || cur.kind != commandIdle || cur.idlePhase != idleWaitingResponse {
		return false
	}
	cur.idlePhase = idleWaitingDoneSet
	return true
}

// SetIdleDone requests transmission of DONE. Legal only in
// idleWaitingDoneSet.
func (s *sendCommandState) SetIdleDone() (CommandHandle, bool) {
	cur := s.current
	if cur == nil || cur.kind != commandIdle || cur.idlePhase != idleWaitingDoneSet {
		return CommandHandle{}, false
	}
	frag := wire.IdleDoneCodec{}.Encode()
	s.writeBuf = append(s.writeBuf, frag.Data...)
	cur.idlePhase = idlePushingDone
	return cur.handle, true
}

// MaybeRemove inspects a tagged status against the in-flight command
// and, if it terminates the sub-dialogue, returns the corresponding
// event and clears current. A non-matching or non-terminal status
// returns removeNone, leaving current untouched so the caller can
// surface it as a regular StatusReceived.
func (s *sendCommandState) MaybeRemove(status wire.Status) removeEvent {
	cur := s.current
	if cur == nil || !status.IsTaggedFor(cur.command.Tag) {
		return removeEvent{}
	}

	switch cur.kind {
	case commandRegular:
		if cur.regularPhase == regularWaitingLiteralAccepted {
			s.current = nil
			return removeEvent{kind: removeCommandRejected, handle: cur.handle, status: status}
		}
	case commandAuthenticate:
		s.current = nil
		if status.Kind == wire.StatusOK {
			return removeEvent{kind: removeAuthenticateAccepted, handle: cur.handle, status: status}
		}
		return removeEvent{kind: removeAuthenticateRejected, handle: cur.handle, status: status}
	case commandIdle:
		if cur.idlePhase == idleWaitingResponse {
			s.current = nil
			return removeEvent{kind: removeIdleRejected, handle: cur.handle, status: status}
		}
	}
	return removeEvent{}
}

// CurrentTag reports the tag of the in-flight command, if any, so the
// caller can recognize a matching tagged status before calling
// MaybeRemove.
func (s *sendCommandState) CurrentTag() (wire.Tag, bool) {
	if s.current == nil {
		return "", false
	}
	return s.current.command.Tag, true
}

// CurrentHandle reports the handle of the in-flight command, if any.
func (s *sendCommandState) CurrentHandle() (CommandHandle, bool) {
	if s.current == nil {
		return CommandHandle{}, false
	}
	return s.current.handle, true
}

func (s *sendCommandState) awaitingLiteralAccepted() bool {
	return s.current != nil && s.current.kind == commandRegular && s.current.regularPhase == regularWaitingLiteralAccepted
}

func (s *sendCommandState) awaitingAuthenticateResponse() bool {
	return s.current != nil && s.current.kind == commandAuthenticate && s.current.authPhase == authWaitingResponse
}

func (s *sendCommandState) awaitingIdleResponse() bool {
	return s.current != nil && s.current.kind == commandIdle && s.current.idlePhase == idleWaitingResponse
}
