package scheduler

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/numbleroot/imapflow/wire"
)

type fakeSASLClient struct {
	mechanism    string
	initial      []byte
	stepResponse []byte
	stepErr      error
}

func (c *fakeSASLClient) Mechanism() string       { return c.mechanism }
func (c *fakeSASLClient) InitialResponse() []byte { return c.initial }
func (c *fakeSASLClient) Step(challenge []byte) ([]byte, bool, error) {
	if c.stepErr != nil {
		return nil, false, c.stepErr
	}
	return c.stepResponse, true, nil
}

func TestAuthenticateTaskCommandBody(t *testing.T) {
	client := &fakeSASLClient{mechanism: "PLAIN", initial: []byte("\x00alice\x00pass")}
	task := NewAuthenticateTask(client)

	cmd := task.CommandBody()
	if cmd.Name != "AUTHENTICATE" {
		t.Errorf("unexpected command name: %q", cmd.Name)
	}
	if cmd.Mechanism != "PLAIN" {
		t.Errorf("unexpected mechanism: %q", cmd.Mechanism)
	}
	if string(cmd.InitialResponse) != "\x00alice\x00pass" {
		t.Errorf("unexpected initial response: %q", cmd.InitialResponse)
	}
}

func TestAuthenticateTaskProcessesContinuation(t *testing.T) {
	client := &fakeSASLClient{mechanism: "SCRAM-SHA-256", stepResponse: []byte("c=biws,r=nonce")}
	task := NewAuthenticateTask(client)

	challenge := base64.StdEncoding.EncodeToString([]byte("r=nonce,s=salt,i=4096"))
	data, ok := task.ProcessContinuationAuthenticate(wire.ContinuationRequest{Text: challenge})
	if !ok {
		t.Fatal("expected the continuation to be consumed")
	}
	if data.Cancel {
		t.Error("unexpected cancellation")
	}
	if string(data.Value) != "c=biws,r=nonce" {
		t.Errorf("unexpected response value: %q", data.Value)
	}
}

func TestAuthenticateTaskCancelsOnMalformedChallenge(t *testing.T) {
	client := &fakeSASLClient{mechanism: "SCRAM-SHA-256"}
	task := NewAuthenticateTask(client)

	data, ok := task.ProcessContinuationAuthenticate(wire.ContinuationRequest{Text: "not base64!!"})
	if !ok {
		t.Fatal("expected the continuation to be consumed even on error")
	}
	if !data.Cancel {
		t.Error("expected the malformed challenge to cancel the exchange")
	}
}

func TestAuthenticateTaskCancelsOnStepError(t *testing.T) {
	client := &fakeSASLClient{mechanism: "SCRAM-SHA-256", stepErr: errors.New("boom")}
	task := NewAuthenticateTask(client)

	challenge := base64.StdEncoding.EncodeToString([]byte("r=nonce"))
	data, ok := task.ProcessContinuationAuthenticate(wire.ContinuationRequest{Text: challenge})
	if !ok {
		t.Fatal("expected the continuation to be consumed even on error")
	}
	if !data.Cancel {
		t.Error("expected a SASL step error to cancel the exchange")
	}
}

func TestAuthenticateTaskProcessTagged(t *testing.T) {
	task := NewAuthenticateTask(&fakeSASLClient{mechanism: "PLAIN"})
	status := wire.Status{Scope: wire.StatusTagged, Tag: "A1", Kind: wire.StatusOK}

	if got := task.ProcessTagged(status); got != status {
		t.Errorf("expected ProcessTagged to pass the status through unchanged, got %+v", got)
	}
}
