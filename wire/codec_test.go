package wire

import "testing"

func TestCommandDecoderMatchesDecodeCommand(t *testing.T) {
	result := CommandDecoder{}.Decode([]byte("A1 NOOP\r\n"), 0, false)
	if result.Outcome != Success {
		t.Fatalf("expected Success, got %v", result.Outcome)
	}
	cmd, ok := result.Message.(Command)
	if !ok {
		t.Fatalf("expected Message to be a Command, got %T", result.Message)
	}
	if cmd.Name != "NOOP" {
		t.Errorf("expected NOOP, got %q", cmd.Name)
	}
}

func TestGreetingDecoderMessageType(t *testing.T) {
	result := GreetingDecoder{}.Decode([]byte("* OK ready\r\n"), 0, false)
	if result.Outcome != Success {
		t.Fatalf("expected Success, got %v", result.Outcome)
	}
	if _, ok := result.Message.(Greeting); !ok {
		t.Fatalf("expected Message to be a Greeting, got %T", result.Message)
	}
}

func TestAuthenticateDataDecoderMessageType(t *testing.T) {
	result := AuthenticateDataDecoder{}.Decode([]byte("*\r\n"), 0, false)
	if result.Outcome != Success {
		t.Fatalf("expected Success, got %v", result.Outcome)
	}
	data, ok := result.Message.(AuthenticateData)
	if !ok {
		t.Fatalf("expected Message to be AuthenticateData, got %T", result.Message)
	}
	if !data.Cancel {
		t.Error("expected Cancel to be true")
	}
}

func TestResponseDecoderMessageType(t *testing.T) {
	result := ResponseDecoder{}.Decode([]byte("A1 OK done\r\n"), 0, false)
	if result.Outcome != Success {
		t.Fatalf("expected Success, got %v", result.Outcome)
	}
	if _, ok := result.Message.(Response); !ok {
		t.Fatalf("expected Message to be a Response, got %T", result.Message)
	}
}
