package sasl

import "bytes"

// plainClient implements RFC 4616 PLAIN: a single message, always
// offered as the SASL-IR initial response.
type plainClient struct {
	message []byte
}

// NewPlainClient builds a PLAIN client for authzID/username/password.
// authzID may be empty to authorize as username itself.
func NewPlainClient(authzID, username, password string) Client {
	message := bytes.Join([][]byte{[]byte(authzID), []byte(username), []byte(password)}, []byte{0})
	return &plainClient{message: message}
}

func (c *plainClient) Mechanism() string { return "PLAIN" }

func (c *plainClient) InitialResponse() []byte { return c.message }

// Step is never expected to be called for PLAIN: the whole exchange
// completes with the initial response plus the server's tagged status.
// A server that nonetheless issues a continuation gets an empty reply,
// matching most servers' tolerance for a bare-line retry.
func (c *plainClient) Step(challenge []byte) ([]byte, bool, error) {
	return nil, true, nil
}
