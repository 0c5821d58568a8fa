package sasl

import "testing"

func TestPlainClientInitialResponse(t *testing.T) {
	c := NewPlainClient("", "alice", "pass")

	if c.Mechanism() != "PLAIN" {
		t.Errorf("unexpected mechanism: %q", c.Mechanism())
	}

	want := "\x00alice\x00pass"
	if got := string(c.InitialResponse()); got != want {
		t.Errorf("unexpected initial response: %q, want %q", got, want)
	}
}

func TestPlainClientWithAuthzID(t *testing.T) {
	c := NewPlainClient("admin", "alice", "pass")

	want := "admin\x00alice\x00pass"
	if got := string(c.InitialResponse()); got != want {
		t.Errorf("unexpected initial response: %q, want %q", got, want)
	}
}

func TestPlainClientStepIsANoOp(t *testing.T) {
	c := NewPlainClient("", "alice", "pass")

	resp, done, err := c.Step([]byte("anything"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !done {
		t.Error("expected PLAIN's Step to report done")
	}
	if resp != nil {
		t.Errorf("expected nil response, got %q", resp)
	}
}
