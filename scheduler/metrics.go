package scheduler

import (
	"github.com/go-kit/kit/metrics"
	"github.com/numbleroot/imapflow"
)

// Metrics holds the Prometheus counters a metricsScheduler reports
// through. Built via metrics.NewClientMetrics.
type Metrics struct {
	TasksFinished metrics.Counter
	Unsolicited   metrics.Counter
}

type metricsScheduler struct {
	next ProgressScheduler
	m    Metrics
}

// NewMetricsScheduler wraps next with a Prometheus metrics exposer.
func NewMetricsScheduler(next ProgressScheduler, m Metrics) ProgressScheduler {
	return &metricsScheduler{next: next, m: m}
}

// Progress wraps next's Progress with a metrics exposer.
func (s *metricsScheduler) Progress(stream imapflow.AnyStream) (SchedulerEvent, error) {

	event, err := s.next.Progress(stream)
	if err != nil {
		return event, err
	}

	switch event.Kind {
	case EventTaskFinished:
		s.m.TasksFinished.Add(1)
	case EventUnsolicited:
		s.m.Unsolicited.With("unsolicited_kind", event.UnsolicitedKind.String()).Add(1)
	}

	return event, nil
}
