package scheduler

import (
	"encoding/base64"

	"github.com/numbleroot/imapflow/sasl"
	"github.com/numbleroot/imapflow/wire"
)

// AuthenticateTask drives one SASL mechanism's AUTHENTICATE
// sub-dialogue through a sasl.Client, surfacing the server's tagged
// completion status as its output.
type AuthenticateTask struct {
	BaseTask
	client sasl.Client
}

// NewAuthenticateTask wraps client for submission via EnqueueTask.
func NewAuthenticateTask(client sasl.Client) *AuthenticateTask {
	return &AuthenticateTask{client: client}
}

func (t *AuthenticateTask) CommandBody() wire.Command {
	return wire.Command{
		Name:            "AUTHENTICATE",
		Mechanism:       t.client.Mechanism(),
		InitialResponse: t.client.InitialResponse(),
	}
}

// ProcessContinuationAuthenticate decodes the server's base64
// challenge, steps the SASL client, and re-encodes its response as the
// next AuthenticateData to send. A malformed challenge cancels the
// exchange rather than surfacing garbage to the client.
func (t *AuthenticateTask) ProcessContinuationAuthenticate(cont wire.ContinuationRequest) (wire.AuthenticateData, bool) {
	challenge, err := base64.StdEncoding.DecodeString(cont.Text)
	if err != nil {
		return wire.AuthenticateData{Cancel: true}, true
	}

	response, _, err := t.client.Step(challenge)
	if err != nil {
		return wire.AuthenticateData{Cancel: true}, true
	}

	return wire.AuthenticateData{Value: response}, true
}

func (t *AuthenticateTask) ProcessTagged(status wire.Status) wire.Status {
	return status
}
