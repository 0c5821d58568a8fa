package scheduler

import "github.com/numbleroot/imapflow"

// TaskHandle identifies a submitted Task[O] through its lifecycle,
// letting the submitter resolve its typed output from a TaskToken
// once the scheduler reports TaskFinished.
type TaskHandle[O any] struct {
	handle imapflow.CommandHandle
}

// Resolve extracts this handle's output from token, if token is for
// this handle. TaskToken is not generic, so a mismatched pairing is
// caught at run time: ok is false when token belongs to another handle
// or its output is not of type O.
func (h TaskHandle[O]) Resolve(token TaskToken) (O, bool) {
	var zero O
	if !token.handle.Equal(h.handle) {
		return zero, false
	}
	out, ok := token.output.(O)
	if !ok {
		return zero, false
	}
	return out, true
}

// TaskToken carries one finished task's type-erased output, emitted
// in a SchedulerEvent and resolved via the matching TaskHandle[O].
type TaskToken struct {
	handle imapflow.CommandHandle
	output any
}
