package wire

import (
	"bytes"
	"encoding/base64"
	"fmt"
)

// CommandCodec encodes and decodes Command messages.
type CommandCodec struct{}

// AuthenticateDataCodec encodes and decodes AuthenticateData lines.
type AuthenticateDataCodec struct{}

// IdleDoneCodec encodes the single "DONE" line.
type IdleDoneCodec struct{}

// GreetingCodec encodes and decodes the server Greeting.
type GreetingCodec struct{}

// ResponseCodec encodes and decodes server Response messages.
type ResponseCodec struct{}

// Encode turns cmd into the ordered fragment stream a sender must push to
// the wire, stopping at every Sync literal so the caller can wait for the
// matching continuation before resuming.
func (CommandCodec) Encode(cmd Command) []Fragment {
	if cmd.IsAuthenticate() {
		var line bytes.Buffer
		fmt.Fprintf(&line, "%s AUTHENTICATE %s", cmd.Tag, cmd.Mechanism)
		if cmd.InitialResponse != nil {
			fmt.Fprintf(&line, " %s", base64.StdEncoding.EncodeToString(cmd.InitialResponse))
		}
		line.WriteString("\r\n")
		return []Fragment{Line(line.Bytes())}
	}

	if cmd.IsIdle() {
		return []Fragment{Line([]byte(fmt.Sprintf("%s IDLE\r\n", cmd.Tag)))}
	}

	var fragments []Fragment
	var cur bytes.Buffer
	fmt.Fprintf(&cur, "%s %s", cmd.Tag, cmd.Name)

	for _, arg := range cmd.Args {
		cur.WriteByte(' ')
		if !arg.Literal {
			cur.Write(arg.Value)
			continue
		}

		suffix := ""
		if arg.Mode == NonSync {
			suffix = "+"
		}
		fmt.Fprintf(&cur, "{%d%s}\r\n", len(arg.Value), suffix)
		fragments = append(fragments, Line(append([]byte(nil), cur.Bytes()...)))
		cur.Reset()
		fragments = append(fragments, Literal(arg.Value, arg.Mode))
	}

	if cmd.Raw != "" {
		cur.WriteByte(' ')
		cur.WriteString(cmd.Raw)
	}
	cur.WriteString("\r\n")
	fragments = append(fragments, Line(cur.Bytes()))

	return fragments
}

// Encode turns data into its single-line wire form.
func (AuthenticateDataCodec) Encode(data AuthenticateData) Fragment {
	if data.Cancel {
		return Line([]byte("*\r\n"))
	}
	encoded := base64.StdEncoding.EncodeToString(data.Value)
	return Line([]byte(encoded + "\r\n"))
}

// Encode returns the "DONE\r\n" line.
func (IdleDoneCodec) Encode() Fragment {
	return Line([]byte("DONE\r\n"))
}

// Encode turns g into its wire form.
func (GreetingCodec) Encode(g Greeting) Fragment {
	var line bytes.Buffer
	line.WriteString("* ")
	line.WriteString(g.Kind.String())
	if g.Code != "" {
		fmt.Fprintf(&line, " [%s]", g.Code)
	}
	if g.Text != "" {
		line.WriteByte(' ')
		line.WriteString(g.Text)
	}
	line.WriteString("\r\n")
	return Line(line.Bytes())
}

// Encode turns r into its single-line fragment. Response bodies that
// themselves carry a literal (e.g. a FETCH body literal) are out of
// scope; see Data's doc comment.
func (ResponseCodec) Encode(r Response) []Fragment {
	switch r.Kind {
	case ResponseStatus:
		return []Fragment{Line([]byte(r.Status.String() + "\r\n"))}
	case ResponseContinuationKind:
		return []Fragment{Line([]byte("+ " + r.Continuation.Text + "\r\n"))}
	case ResponseDataKind:
		return []Fragment{Line([]byte("* " + r.Data.Text + "\r\n"))}
	default:
		panic("wire: unknown response kind")
	}
}
