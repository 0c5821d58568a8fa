package metrics

import "testing"

func TestNewClientMetricsCountersAreUsable(t *testing.T) {
	m := NewClientMetrics("client")

	m.Scheduler.TasksFinished.Add(1)
	m.Scheduler.Unsolicited.With("unsolicited_kind", "data").Add(1)
}

func TestNewServerMetricsCountersAreUsable(t *testing.T) {
	m := NewServerMetrics("server")

	m.CommandsReceived.With("command", "NOOP").Add(1)
	m.ResponsesSent.Add(1)
	m.AuthenticateStarts.With("mechanism", "PLAIN").Add(1)
}
