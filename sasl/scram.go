package sasl

import "github.com/xdg-go/scram"

// scramClient implements SCRAM-SHA-256 (RFC 5802/7677) by driving an
// xdg-go/scram client conversation one challenge at a time. This
// mechanism has no SASL-IR initial response beyond the client-first
// message, which xdg-go/scram produces lazily on the first Step call
// rather than at construction, so InitialResponse sends it eagerly
// here to support servers that require SASL-IR.
type scramClient struct {
	conv *scram.ClientConversation
	step int
}

// NewScramSHA256Client builds a SCRAM-SHA-256 client for username and
// password, with no authorization identity override.
func NewScramSHA256Client(username, password string) (Client, error) {
	c, err := scram.SHA256.NewClient(username, password, "")
	if err != nil {
		return nil, err
	}
	return &scramClient{conv: c.NewConversation()}, nil
}

func (c *scramClient) Mechanism() string { return "SCRAM-SHA-256" }

func (c *scramClient) InitialResponse() []byte {
	first, err := c.conv.Step("")
	if err != nil {
		return nil
	}
	c.step++
	return []byte(first)
}

// Step advances the conversation with the server's latest challenge.
// done is true once xdg-go/scram reports the conversation Done; the
// server's own tagged completion status still decides success.
func (c *scramClient) Step(challenge []byte) ([]byte, bool, error) {
	resp, err := c.conv.Step(string(challenge))
	if err != nil {
		return nil, false, err
	}
	c.step++
	return []byte(resp), c.conv.Done(), nil
}
