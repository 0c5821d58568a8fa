package imapflow_test

import (
	"sync"
	"testing"

	"github.com/numbleroot/imapflow"
	"github.com/numbleroot/imapflow/internal/flowtest"
	"github.com/numbleroot/imapflow/wire"
)

// TestClientServerCommandRoundTrip drives a real ClientFlow and
// ServerFlow against opposite ends of one net.Pipe, each on its own
// goroutine, exercising the full greeting-then-command round trip the
// unit tests only approximate with canned buffers.
func TestClientServerCommandRoundTrip(t *testing.T) {
	pair := flowtest.NewPair(t)
	greeting := wire.Greeting{Kind: wire.StatusOK, Text: "ready"}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		server := flowtest.NewServerTester(t, pair.Server, imapflow.DefaultServerOptions(), greeting)

		event := server.ExpectEvent(imapflow.ServerCommandReceived)
		if event.Command.Name != "NOOP" {
			t.Errorf("expected NOOP, got %q", event.Command.Name)
		}
		server.Flow().EnqueueStatus(wire.Status{Scope: wire.StatusTagged, Tag: event.Command.Tag, Kind: wire.StatusOK, Text: "completed"})
		server.ExpectEvent(imapflow.ServerResponseSent)
	}()

	go func() {
		defer wg.Done()
		client := flowtest.ReceiveGreeting(t, pair.Client, imapflow.DefaultClientOptions(), greeting)

		handle := client.SendCommand(wire.Command{Tag: "A1", Name: "NOOP"})
		event := client.ExpectEvent(imapflow.ClientStatusReceived)
		if event.Status.Tag != "A1" || event.Status.Kind != wire.StatusOK {
			t.Errorf("unexpected status: %+v", event.Status)
		}
		_ = handle
	}()

	wg.Wait()
}

// TestClientServerAuthenticateRoundTrip exercises the AUTHENTICATE
// sub-dialogue end to end: the server decodes an AUTHENTICATE command
// sent without an initial response, asks for one piece of data, then
// accepts.
func TestClientServerAuthenticateRoundTrip(t *testing.T) {
	pair := flowtest.NewPair(t)
	greeting := wire.Greeting{Kind: wire.StatusOK, Text: "ready"}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		server := flowtest.NewServerTester(t, pair.Server, imapflow.DefaultServerOptions(), greeting)

		event := server.ExpectEvent(imapflow.ServerCommandAuthenticateReceived)
		if event.Command.Mechanism != "PLAIN" {
			t.Errorf("expected PLAIN, got %q", event.Command.Mechanism)
		}

		if err := server.Flow().AuthenticateContinue(wire.ContinuationRequest{Text: "go ahead"}); err != nil {
			t.Fatalf("AuthenticateContinue: unexpected error: %v", err)
		}
		server.ExpectEvent(imapflow.ServerResponseSent)

		data := server.ExpectEvent(imapflow.ServerAuthenticateDataReceived)
		if string(data.Data.Value) != "resp" {
			t.Errorf("unexpected authenticate data: %q", data.Data.Value)
		}

		if _, err := server.Flow().AuthenticateFinish(wire.Status{Scope: wire.StatusTagged, Tag: "A1", Kind: wire.StatusOK, Text: "authenticated"}); err != nil {
			t.Fatalf("AuthenticateFinish: unexpected error: %v", err)
		}
		server.ExpectEvent(imapflow.ServerResponseSent)
	}()

	go func() {
		defer wg.Done()
		client := flowtest.ReceiveGreeting(t, pair.Client, imapflow.DefaultClientOptions(), greeting)

		client.Flow().EnqueueCommand(wire.Command{Tag: "A1", Name: "AUTHENTICATE", Mechanism: "PLAIN"})
		client.ExpectEvent(imapflow.ClientAuthenticateStarted)
		client.ExpectEvent(imapflow.ClientContinuationAuthenticateReceived)

		if _, ok := client.Flow().SetAuthenticateData(wire.AuthenticateData{Value: []byte("resp")}); !ok {
			t.Fatal("expected SetAuthenticateData to succeed")
		}

		event := client.ExpectEvent(imapflow.ClientAuthenticateAccepted)
		if event.Status.Kind != wire.StatusOK {
			t.Errorf("unexpected status: %+v", event.Status)
		}
	}()

	wg.Wait()
}
