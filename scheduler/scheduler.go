package scheduler

import (
	"fmt"

	"github.com/numbleroot/imapflow"
	"github.com/numbleroot/imapflow/wire"
)

// Scheduler owns a ClientFlow and routes its events to the tasks that
// submitted the commands driving them.
type Scheduler struct {
	flow    *imapflow.ClientFlow
	waiting taskMap
	active  taskMap
	tags    *TagGenerator
}

// NewScheduler wraps flow, which the Scheduler owns exclusively from
// this point on.
func NewScheduler(flow *imapflow.ClientFlow) *Scheduler {
	return &Scheduler{flow: flow, tags: NewTagGenerator()}
}

// EnqueueTask submits task, tags and transmits its command, and
// returns a handle the caller uses to resolve its output once
// finished. A free function, not a method, because Go methods cannot
// introduce their own type parameters.
func EnqueueTask[O any](s *Scheduler, task Task[O]) TaskHandle[O] {
	tag := s.tags.Generate()
	cmd := task.CommandBody()
	cmd.Tag = tag

	handle := s.flow.EnqueueCommand(cmd)
	s.waiting.pushBack(handle, tag, taskAdapter[O]{task: task})

	return TaskHandle[O]{handle: handle}
}

// SetIdleDone requests transmission of DONE for the in-flight IDLE
// task, if any.
func (s *Scheduler) SetIdleDone() bool {
	_, ok := s.flow.SetIdleDone()
	return ok
}

// UnsolicitedKind discriminates the response kinds that can arrive
// with no active task willing to consume them.
type UnsolicitedKind int

const (
	UnsolicitedData UnsolicitedKind = iota
	UnsolicitedContinuation
	UnsolicitedStatus
)

func (k UnsolicitedKind) String() string {
	switch k {
	case UnsolicitedData:
		return "data"
	case UnsolicitedContinuation:
		return "continuation"
	case UnsolicitedStatus:
		return "status"
	default:
		return "unknown"
	}
}

// SchedulerEventKind discriminates SchedulerEvent.
type SchedulerEventKind int

const (
	EventTaskFinished SchedulerEventKind = iota
	EventUnsolicited
)

// SchedulerEvent is one event surfaced by Scheduler.Progress.
type SchedulerEvent struct {
	Kind  SchedulerEventKind
	Token TaskToken

	UnsolicitedKind UnsolicitedKind
	Data            wire.Data
	Continuation    wire.ContinuationRequest
	Status          wire.Status
}

// UnexpectedTaggedResponseError is fatal: the protocol state is
// corrupt, since every tagged status should match an active task.
type UnexpectedTaggedResponseError struct {
	Status wire.Status
}

func (e *UnexpectedTaggedResponseError) Error() string {
	return fmt.Sprintf("scheduler: unexpected tagged response for tag %q", e.Status.Tag)
}

// Progress drives the underlying ClientFlow and routes events to
// tasks until one produces a TaskFinished or Unsolicited event to
// surface, or a fatal error occurs.
func (s *Scheduler) Progress(stream imapflow.AnyStream) (SchedulerEvent, error) {
	for {
		event, err := s.flow.Progress(stream)
		if err != nil {
			return SchedulerEvent{}, err
		}

		switch event.Kind {
		case imapflow.ClientCommandSent:
			s.promote(event.Handle)

		case imapflow.ClientCommandRejected:
			if ev, ok := s.finish(event.Handle, event.Status); ok {
				return ev, nil
			}

		case imapflow.ClientAuthenticateStarted:
			s.promote(event.Handle)

		case imapflow.ClientContinuationAuthenticateReceived:
			task, ok := s.active.getByHandle(event.Handle)
			if !ok {
				return SchedulerEvent{Kind: EventUnsolicited, UnsolicitedKind: UnsolicitedContinuation, Continuation: event.Continuation}, nil
			}
			if data, consumed := task.ProcessContinuationAuthenticate(event.Continuation); consumed {
				s.flow.SetAuthenticateData(data)
			} else {
				return SchedulerEvent{Kind: EventUnsolicited, UnsolicitedKind: UnsolicitedContinuation, Continuation: event.Continuation}, nil
			}

		case imapflow.ClientAuthenticateAccepted, imapflow.ClientAuthenticateRejected:
			if ev, ok := s.finish(event.Handle, event.Status); ok {
				return ev, nil
			}

		case imapflow.ClientDataReceived:
			if !s.trickleData(event.Data) {
				return SchedulerEvent{Kind: EventUnsolicited, UnsolicitedKind: UnsolicitedData, Data: event.Data}, nil
			}

		case imapflow.ClientContinuationReceived:
			if !s.trickleContinuation(event.Continuation) {
				return SchedulerEvent{Kind: EventUnsolicited, UnsolicitedKind: UnsolicitedContinuation, Continuation: event.Continuation}, nil
			}

		case imapflow.ClientStatusReceived:
			ev, surface, err := s.routeStatus(event.Status)
			if err != nil {
				return SchedulerEvent{}, err
			}
			if surface {
				return ev, nil
			}

		case imapflow.ClientIdleCommandSent:
			s.promote(event.Handle)

		case imapflow.ClientIdleAccepted:
			if !s.trickleContinuation(event.Continuation) {
				return SchedulerEvent{Kind: EventUnsolicited, UnsolicitedKind: UnsolicitedContinuation, Continuation: event.Continuation}, nil
			}

		case imapflow.ClientIdleRejected:
			if ev, ok := s.finish(event.Handle, event.Status); ok {
				return ev, nil
			}

		case imapflow.ClientIdleDoneSent:
			// No scheduler action: the idle task's terminal status
			// arrives next as an ordinary tagged StatusReceived.
		}
	}
}

func (s *Scheduler) promote(handle imapflow.CommandHandle) {
	if entry, ok := s.waiting.removeByHandle(handle); ok {
		s.active.pushBack(entry.handle, entry.tag, entry.task)
	}
}

func (s *Scheduler) finish(handle imapflow.CommandHandle, status wire.Status) (SchedulerEvent, bool) {
	entry, ok := s.active.removeByHandle(handle)
	if !ok {
		// A command rejected while waiting for its first literal to be
		// accepted never reported CommandSent, so it is still waiting.
		entry, ok = s.waiting.removeByHandle(handle)
	}
	if !ok {
		return SchedulerEvent{}, false
	}
	output := entry.task.processTaggedAny(status)
	return SchedulerEvent{Kind: EventTaskFinished, Token: TaskToken{handle: handle, output: output}}, true
}

func (s *Scheduler) routeStatus(status wire.Status) (SchedulerEvent, bool, error) {
	switch status.Scope {
	case wire.StatusTagged:
		entry, ok := s.active.removeByTag(status.Tag)
		if !ok {
			return SchedulerEvent{}, false, &UnexpectedTaggedResponseError{Status: status}
		}
		output := entry.task.processTaggedAny(status)
		return SchedulerEvent{Kind: EventTaskFinished, Token: TaskToken{handle: entry.handle, output: output}}, true, nil

	case wire.ScopeBye:
		if !s.trickleBye(status) {
			return SchedulerEvent{Kind: EventUnsolicited, UnsolicitedKind: UnsolicitedStatus, Status: status}, true, nil
		}
		return SchedulerEvent{}, false, nil

	default: // wire.StatusUntagged
		if !s.trickleUntagged(status) {
			return SchedulerEvent{Kind: EventUnsolicited, UnsolicitedKind: UnsolicitedStatus, Status: status}, true, nil
		}
		return SchedulerEvent{}, false, nil
	}
}

// trickleData offers data to each active task in enqueue order; the
// first consumer wins.
func (s *Scheduler) trickleData(data wire.Data) bool {
	for _, e := range s.active.entries {
		if e.task.ProcessData(data) {
			return true
		}
	}
	return false
}

func (s *Scheduler) trickleContinuation(cont wire.ContinuationRequest) bool {
	for _, e := range s.active.entries {
		if e.task.ProcessContinuation(cont) {
			return true
		}
	}
	return false
}

func (s *Scheduler) trickleUntagged(status wire.Status) bool {
	for _, e := range s.active.entries {
		if e.task.ProcessUntagged(status) {
			return true
		}
	}
	return false
}

func (s *Scheduler) trickleBye(status wire.Status) bool {
	for _, e := range s.active.entries {
		if e.task.ProcessBye(status) {
			return true
		}
	}
	return false
}
