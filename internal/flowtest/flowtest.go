// Package flowtest drives a ClientFlow and a ServerFlow against one
// net.Pipe and asserts the event sequence each side produces.
package flowtest

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/numbleroot/imapflow"
	"github.com/numbleroot/imapflow/wire"
)

// Pair is a connected client/server byte pipe plus the stream
// adapters both flows read and write through.
type Pair struct {
	T      *testing.T
	Client imapflow.AnyStream
	Server imapflow.AnyStream
}

// NewPair opens an in-memory net.Pipe connecting a client stream to a
// server stream.
func NewPair(t *testing.T) *Pair {
	clientConn, serverConn := net.Pipe()
	return &Pair{
		T:      t,
		Client: imapflow.NewConnStream(clientConn),
		Server: imapflow.NewConnStream(serverConn),
	}
}

// ClientTester wraps a ClientFlow with assertion helpers for
// table-driven tests.
type ClientTester struct {
	t      *testing.T
	stream imapflow.AnyStream
	flow   *imapflow.ClientFlow
}

// ReceiveGreeting blocks for the server's greeting and asserts it
// matches want.
func ReceiveGreeting(t *testing.T, stream imapflow.AnyStream, options imapflow.ClientOptions, want wire.Greeting) *ClientTester {
	flow, greeting, err := imapflow.ReceiveGreeting(stream, options)
	if err != nil {
		t.Fatalf("ReceiveGreeting: unexpected error: %v", err)
	}
	assert.Equal(t, want, greeting, "greeting should match")
	return &ClientTester{t: t, stream: stream, flow: flow}
}

// Flow exposes the underlying ClientFlow for calls flowtest doesn't
// wrap.
func (c *ClientTester) Flow() *imapflow.ClientFlow { return c.flow }

// SendCommand enqueues cmd and asserts it is sent back as the very
// next client event.
func (c *ClientTester) SendCommand(cmd wire.Command) imapflow.CommandHandle {
	handle := c.flow.EnqueueCommand(cmd)
	event, err := c.flow.Progress(c.stream)
	if err != nil {
		c.t.Fatalf("Progress: unexpected error: %v", err)
	}
	if event.Kind != imapflow.ClientCommandSent {
		c.t.Fatalf("expected ClientCommandSent, got %v", event.Kind)
	}
	assert.True(c.t, handle.Equal(event.Handle), "handle should match the enqueued command")
	return handle
}

// ExpectEvent runs one Progress round and asserts its kind.
func (c *ClientTester) ExpectEvent(kind imapflow.ClientEventKind) imapflow.ClientEvent {
	event, err := c.flow.Progress(c.stream)
	if err != nil {
		c.t.Fatalf("Progress: unexpected error: %v", err)
	}
	if event.Kind != kind {
		c.t.Fatalf("expected event kind %v, got %v", kind, event.Kind)
	}
	return event
}

// ServerTester wraps a ServerFlow with assertion helpers.
type ServerTester struct {
	t      *testing.T
	stream imapflow.AnyStream
	flow   *imapflow.ServerFlow
}

// NewServerTester constructs a ServerFlow and queues its greeting for
// the first Progress call.
func NewServerTester(t *testing.T, stream imapflow.AnyStream, options imapflow.ServerOptions, greeting wire.Greeting) *ServerTester {
	return &ServerTester{t: t, stream: stream, flow: imapflow.NewServerFlow(options, greeting)}
}

// Flow exposes the underlying ServerFlow for calls flowtest doesn't
// wrap.
func (s *ServerTester) Flow() *imapflow.ServerFlow { return s.flow }

// ExpectEvent runs one Progress round and asserts its kind.
func (s *ServerTester) ExpectEvent(kind imapflow.ServerFlowEventKind) imapflow.ServerFlowEvent {
	event, err := s.flow.Progress(s.stream)
	if err != nil {
		s.t.Fatalf("Progress: unexpected error: %v", err)
	}
	if event.Kind != kind {
		s.t.Fatalf("expected event kind %v, got %v", kind, event.Kind)
	}
	return event
}
