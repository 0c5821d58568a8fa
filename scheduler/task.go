// Package scheduler layers request/response task semantics on top of
// imapflow.ClientFlow: submitters enqueue typed tasks, the scheduler
// tags and transmits them, and routes every incoming response to the
// task that should see it. Task's output type is erased into taskAny
// via a small adapter so heterogeneous tasks can share one queue.
package scheduler

import "github.com/numbleroot/imapflow/wire"

// Task tells the scheduler how a specific IMAP command is processed.
// Most Process* methods consume interesting responses (returning
// true); an uninteresting response is left for the next active task
// (returning false), or surfaced as Unsolicited if none want it.
type Task[O any] interface {
	// CommandBody returns the command to issue. The scheduler fills
	// in the tag.
	CommandBody() wire.Command

	ProcessData(data wire.Data) bool
	ProcessUntagged(status wire.Status) bool
	ProcessContinuation(cont wire.ContinuationRequest) bool
	// ProcessContinuationAuthenticate inspects a continuation received
	// during this task's AUTHENTICATE sub-dialogue. Returning ok=true
	// supplies the next SASL data to send; ok=false surfaces the
	// continuation as Unsolicited instead.
	ProcessContinuationAuthenticate(cont wire.ContinuationRequest) (data wire.AuthenticateData, ok bool)
	ProcessBye(status wire.Status) bool

	// ProcessTagged consumes the task, producing its final output from
	// the command's completion status.
	ProcessTagged(status wire.Status) O
}

// BaseTask provides no-op defaults for the Process* hooks a task
// doesn't care about; embed it and override only what's needed.
type BaseTask struct{}

func (BaseTask) ProcessData(wire.Data) bool                 { return false }
func (BaseTask) ProcessUntagged(wire.Status) bool            { return false }
func (BaseTask) ProcessContinuation(wire.ContinuationRequest) bool { return false }
func (BaseTask) ProcessContinuationAuthenticate(wire.ContinuationRequest) (wire.AuthenticateData, bool) {
	return wire.AuthenticateData{}, false
}
func (BaseTask) ProcessBye(wire.Status) bool { return false }

// taskAny is the type-erased, object-safe subset of Task[O] the
// scheduler actually stores: heterogeneous Task[O] values for
// different O cannot share a slice in Go without erasing O, so
// ProcessTagged's return type is narrowed to any here.
type taskAny interface {
	CommandBody() wire.Command
	ProcessData(wire.Data) bool
	ProcessUntagged(wire.Status) bool
	ProcessContinuation(wire.ContinuationRequest) bool
	ProcessContinuationAuthenticate(wire.ContinuationRequest) (wire.AuthenticateData, bool)
	ProcessBye(wire.Status) bool
	processTaggedAny(wire.Status) any
}

type taskAdapter[O any] struct {
	task Task[O]
}

func (a taskAdapter[O]) CommandBody() wire.Command { return a.task.CommandBody() }
func (a taskAdapter[O]) ProcessData(d wire.Data) bool { return a.task.ProcessData(d) }
func (a taskAdapter[O]) ProcessUntagged(s wire.Status) bool { return a.task.ProcessUntagged(s) }
func (a taskAdapter[O]) ProcessContinuation(c wire.ContinuationRequest) bool {
	return a.task.ProcessContinuation(c)
}
func (a taskAdapter[O]) ProcessContinuationAuthenticate(c wire.ContinuationRequest) (wire.AuthenticateData, bool) {
	return a.task.ProcessContinuationAuthenticate(c)
}
func (a taskAdapter[O]) ProcessBye(s wire.Status) bool { return a.task.ProcessBye(s) }
func (a taskAdapter[O]) processTaggedAny(s wire.Status) any {
	return a.task.ProcessTagged(s)
}
