package wire

import (
	"math"
	"testing"
)

func TestDecodeCommandGeneric(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantTag  Tag
		wantName string
	}{
		{"noop", "A1 NOOP\r\n", "A1", "NOOP"},
		{"capability", "A2 CAPABILITY\r\n", "A2", "CAPABILITY"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := DecodeCommand([]byte(tc.input), 0, false)
			if result.Outcome != Success {
				t.Fatalf("expected Success, got %v", result.Outcome)
			}
			if result.Command.Tag != tc.wantTag {
				t.Errorf("expected tag %q, got %q", tc.wantTag, result.Command.Tag)
			}
			if result.Command.Name != tc.wantName {
				t.Errorf("expected name %q, got %q", tc.wantName, result.Command.Name)
			}
			if result.Consumed != len(tc.input) {
				t.Errorf("expected consumed %d, got %d", len(tc.input), result.Consumed)
			}
		})
	}
}

func TestDecodeCommandIncomplete(t *testing.T) {
	result := DecodeCommand([]byte("A1 NOO"), 0, false)
	if result.Outcome != Incomplete {
		t.Fatalf("expected Incomplete, got %v", result.Outcome)
	}
}

func TestDecodeCommandBareLFStrict(t *testing.T) {
	result := DecodeCommand([]byte("A1 NOOP\n"), 0, false)
	if result.Outcome != CRLFError {
		t.Fatalf("expected CRLFError, got %v", result.Outcome)
	}
}

func TestDecodeCommandBareLFRelaxed(t *testing.T) {
	result := DecodeCommand([]byte("A1 NOOP\n"), 0, true)
	if result.Outcome != Success {
		t.Fatalf("expected Success, got %v", result.Outcome)
	}
}

func TestDecodeCommandLiteralFound(t *testing.T) {
	result := DecodeCommand([]byte("A1 LOGIN {5}\r\n"), 0, false)
	if result.Outcome != LiteralFound {
		t.Fatalf("expected LiteralFound, got %v", result.Outcome)
	}
	if result.Length != 5 {
		t.Errorf("expected length 5, got %d", result.Length)
	}
	if result.Mode != Sync {
		t.Errorf("expected Sync mode, got %v", result.Mode)
	}
}

func TestDecodeCommandLiteralFoundOverflowsUint32(t *testing.T) {
	result := DecodeCommand([]byte("A1 LOGIN {9999999999}\r\n"), 0, false)
	if result.Outcome != LiteralFound {
		t.Fatalf("expected LiteralFound, got %v", result.Outcome)
	}
	if result.Length != math.MaxUint32 {
		t.Errorf("expected length saturated to MaxUint32, got %d", result.Length)
	}
}

func TestDecodeCommandLiteralAlreadyStarted(t *testing.T) {
	result := DecodeCommand([]byte("A1 LOGIN {5}\r\nalice \"secret\"\r\n"), 1, false)
	if result.Outcome != Success {
		t.Fatalf("expected Success, got %v", result.Outcome)
	}
	if len(result.Command.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(result.Command.Args))
	}
	if string(result.Command.Args[0].Value) != "alice" {
		t.Errorf("expected literal value %q, got %q", "alice", result.Command.Args[0].Value)
	}
}

func TestDecodeCommandLiteralHeaderBareLF(t *testing.T) {
	result := DecodeCommand([]byte("A1 LOGIN {5}\nalice \"secret\"\r\n"), 1, false)
	if result.Outcome != CRLFError {
		t.Fatalf("expected CRLFError, got %v", result.Outcome)
	}
}

func TestDecodeAuthenticateCommand(t *testing.T) {
	result := DecodeCommand([]byte("A1 AUTHENTICATE PLAIN\r\n"), 0, false)
	if result.Outcome != Success {
		t.Fatalf("expected Success, got %v", result.Outcome)
	}
	if !result.Command.IsAuthenticate() {
		t.Error("expected IsAuthenticate to be true")
	}
	if result.Command.Mechanism != "PLAIN" {
		t.Errorf("expected mechanism PLAIN, got %q", result.Command.Mechanism)
	}
}

func TestDecodeIdleCommand(t *testing.T) {
	result := DecodeCommand([]byte("A1 IDLE\r\n"), 0, false)
	if result.Outcome != Success {
		t.Fatalf("expected Success, got %v", result.Outcome)
	}
	if !result.Command.IsIdle() {
		t.Error("expected IsIdle to be true")
	}
}

func TestDecodeAuthenticateData(t *testing.T) {
	result := DecodeAuthenticateData([]byte("AGFsaWNlAHBhc3M=\r\n"), false)
	if result.Outcome != Success {
		t.Fatalf("expected Success, got %v", result.Outcome)
	}
	if string(result.Data.Value) != "\x00alice\x00pass" {
		t.Errorf("unexpected decoded value: %q", result.Data.Value)
	}
}

func TestDecodeAuthenticateDataCancel(t *testing.T) {
	result := DecodeAuthenticateData([]byte("*\r\n"), false)
	if result.Outcome != Success {
		t.Fatalf("expected Success, got %v", result.Outcome)
	}
	if !result.Data.Cancel {
		t.Error("expected Cancel to be true")
	}
}

func TestDecodeGreeting(t *testing.T) {
	result := DecodeGreeting([]byte("* OK [CAPABILITY IMAP4rev1] ready\r\n"), false)
	if result.Outcome != Success {
		t.Fatalf("expected Success, got %v", result.Outcome)
	}
	if result.Greeting.Kind != StatusOK {
		t.Errorf("expected StatusOK, got %v", result.Greeting.Kind)
	}
	if result.Greeting.Code != "CAPABILITY IMAP4rev1" {
		t.Errorf("unexpected code: %q", result.Greeting.Code)
	}
	if result.Greeting.Text != "ready" {
		t.Errorf("unexpected text: %q", result.Greeting.Text)
	}
}

func TestDecodeResponseTaggedStatus(t *testing.T) {
	result := DecodeResponse([]byte("A1 OK completed\r\n"), false)
	if result.Outcome != Success {
		t.Fatalf("expected Success, got %v", result.Outcome)
	}
	status := result.Response.Status
	if status.Scope != StatusTagged || status.Tag != "A1" || status.Kind != StatusOK {
		t.Errorf("unexpected status: %+v", status)
	}
}

func TestDecodeResponseUntaggedData(t *testing.T) {
	result := DecodeResponse([]byte("* 1 EXISTS\r\n"), false)
	if result.Outcome != Success {
		t.Fatalf("expected Success, got %v", result.Outcome)
	}
	if result.Response.Kind != ResponseDataKind {
		t.Fatalf("expected ResponseDataKind, got %v", result.Response.Kind)
	}
	if result.Response.Data.Text != "1 EXISTS" {
		t.Errorf("unexpected data text: %q", result.Response.Data.Text)
	}
}

func TestDecodeResponseBye(t *testing.T) {
	result := DecodeResponse([]byte("* BYE shutting down\r\n"), false)
	if result.Outcome != Success {
		t.Fatalf("expected Success, got %v", result.Outcome)
	}
	if result.Response.Status.Scope != ScopeBye {
		t.Errorf("expected ScopeBye, got %v", result.Response.Status.Scope)
	}
}

func TestDecodeResponseContinuation(t *testing.T) {
	result := DecodeResponse([]byte("+ ready for literal\r\n"), false)
	if result.Outcome != Success {
		t.Fatalf("expected Success, got %v", result.Outcome)
	}
	if result.Response.Kind != ResponseContinuationKind {
		t.Fatalf("expected ResponseContinuationKind, got %v", result.Response.Kind)
	}
	if result.Response.Continuation.Text != "ready for literal" {
		t.Errorf("unexpected continuation text: %q", result.Response.Continuation.Text)
	}
}
