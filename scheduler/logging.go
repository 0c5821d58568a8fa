package scheduler

import (
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/numbleroot/imapflow"
)

// ProgressScheduler is the subset of Scheduler that decorators wrap.
// EnqueueTask cannot appear here: Go methods cannot carry their own
// type parameters, so it stays a free function operating on the
// concrete *Scheduler.
type ProgressScheduler interface {
	Progress(stream imapflow.AnyStream) (SchedulerEvent, error)
}

type loggingScheduler struct {
	logger log.Logger
	next   ProgressScheduler
}

// NewLoggingScheduler wraps next with logging of every surfaced event
// and any fatal error.
func NewLoggingScheduler(next ProgressScheduler, logger log.Logger) ProgressScheduler {
	return &loggingScheduler{logger: logger, next: next}
}

// Progress wraps next's Progress with added logging capabilities.
func (s *loggingScheduler) Progress(stream imapflow.AnyStream) (SchedulerEvent, error) {

	event, err := s.next.Progress(stream)
	if err != nil {
		level.Warn(s.logger).Log(
			"msg", "scheduler progress failed",
			"err", err,
		)
		return event, err
	}

	logger := log.With(s.logger, "kind", event.Kind)

	switch event.Kind {
	case EventTaskFinished:
		level.Debug(logger).Log("msg", "task finished")
	case EventUnsolicited:
		level.Info(log.With(logger, "unsolicited_kind", event.UnsolicitedKind)).Log("msg", "unsolicited response")
	}

	return event, nil
}
