// Package metrics wires the Prometheus counters exposed by the
// imapflow client and server flows and the scheduler.
package metrics

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/prometheus"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/numbleroot/imapflow/scheduler"
)

const namespace = "imapflow"

// ClientMetrics holds the counters a client-side deployment exposes.
type ClientMetrics struct {
	Scheduler scheduler.Metrics
}

// NewClientMetrics constructs fresh Prometheus counters registered
// under subsystem, so multiple connections can be distinguished.
func NewClientMetrics(subsystem string) *ClientMetrics {
	return &ClientMetrics{
		Scheduler: scheduler.Metrics{
			TasksFinished: prometheus.NewCounterFrom(prom.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tasks_finished_total",
				Help:      "Number of tasks that reached a terminal tagged status",
			}, []string{}),
			Unsolicited: prometheus.NewCounterFrom(prom.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "unsolicited_responses_total",
				Help:      "Number of responses no active task consumed",
			}, []string{"unsolicited_kind"}),
		},
	}
}

// ServerMetrics holds the counters a server-side deployment exposes.
type ServerMetrics struct {
	CommandsReceived   metrics.Counter
	ResponsesSent      metrics.Counter
	AuthenticateStarts metrics.Counter
}

// NewServerMetrics constructs fresh Prometheus counters registered
// under subsystem.
func NewServerMetrics(subsystem string) *ServerMetrics {
	return &ServerMetrics{
		CommandsReceived: prometheus.NewCounterFrom(prom.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "commands_received_total",
			Help:      "Number of commands received by their command name",
		}, []string{"command"}),
		ResponsesSent: prometheus.NewCounterFrom(prom.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "responses_sent_total",
			Help:      "Number of responses sent",
		}, []string{}),
		AuthenticateStarts: prometheus.NewCounterFrom(prom.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "authenticate_starts_total",
			Help:      "Number of AUTHENTICATE sub-dialogues started",
		}, []string{"mechanism"}),
	}
}
