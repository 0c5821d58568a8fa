package scheduler

import (
	"errors"
	"testing"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/generic"

	"github.com/numbleroot/imapflow"
)

type fakeProgressScheduler struct {
	events []SchedulerEvent
	errs   []error
	calls  int
}

func (f *fakeProgressScheduler) Progress(stream imapflow.AnyStream) (SchedulerEvent, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return SchedulerEvent{}, f.errs[i]
	}
	return f.events[i], nil
}

func discardMetrics() Metrics {
	return Metrics{TasksFinished: discard.NewCounter(), Unsolicited: discard.NewCounter()}
}

func TestLoggingSchedulerPassesEventsThrough(t *testing.T) {
	fake := &fakeProgressScheduler{events: []SchedulerEvent{{Kind: EventTaskFinished}}}
	s := NewLoggingScheduler(fake, log.NewNopLogger())

	event, err := s.Progress(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Kind != EventTaskFinished {
		t.Errorf("expected EventTaskFinished, got %v", event.Kind)
	}
	if fake.calls != 1 {
		t.Errorf("expected the wrapped scheduler to be called once, got %d", fake.calls)
	}
}

func TestLoggingSchedulerPassesErrorsThrough(t *testing.T) {
	wantErr := errors.New("boom")
	fake := &fakeProgressScheduler{events: []SchedulerEvent{{}}, errs: []error{wantErr}}
	s := NewLoggingScheduler(fake, log.NewNopLogger())

	_, err := s.Progress(nil)
	if err != wantErr {
		t.Errorf("expected the underlying error to pass through, got %v", err)
	}
}

func TestMetricsSchedulerIncrementsOnTaskFinished(t *testing.T) {
	fake := &fakeProgressScheduler{events: []SchedulerEvent{{Kind: EventTaskFinished}}}
	counter := generic.NewCounter("tasks_finished_total")
	s := NewMetricsScheduler(fake, Metrics{TasksFinished: counter, Unsolicited: discard.NewCounter()})

	if _, err := s.Progress(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := counter.Value(); got != 1 {
		t.Errorf("expected TasksFinished to be incremented once, got %v", got)
	}
}

func TestMetricsSchedulerPassesUnsolicitedThrough(t *testing.T) {
	fake := &fakeProgressScheduler{events: []SchedulerEvent{{Kind: EventUnsolicited, UnsolicitedKind: UnsolicitedData}}}
	s := NewMetricsScheduler(fake, discardMetrics())

	event, err := s.Progress(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Kind != EventUnsolicited || event.UnsolicitedKind != UnsolicitedData {
		t.Errorf("expected unsolicited data to pass through, got %+v", event)
	}
}

func TestMetricsSchedulerPassesErrorsThrough(t *testing.T) {
	wantErr := errors.New("boom")
	fake := &fakeProgressScheduler{events: []SchedulerEvent{{}}, errs: []error{wantErr}}
	s := NewMetricsScheduler(fake, discardMetrics())

	_, err := s.Progress(nil)
	if err != wantErr {
		t.Errorf("expected the underlying error to pass through, got %v", err)
	}
}
