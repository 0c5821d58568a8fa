package wire

import (
	"bytes"
	"encoding/base64"
	"math"
	"strconv"
	"strings"
)

// Outcome is the result discriminator shared by every Decode* function in
// this package: four outcomes for most message kinds, five for commands
// (which can also report a literal announcement).
type Outcome int

const (
	// Incomplete means more bytes are needed before a decision can be
	// made.
	Incomplete Outcome = iota
	// Success means a full message was decoded; Consumed bytes should
	// be discarded from the read buffer.
	Success
	// Failed means the buffered bytes do not form a valid message.
	Failed
	// LiteralFound means a command announces a literal argument whose
	// bytes are not yet known to be available (commands only).
	LiteralFound
	// CRLFError means a bare LF was seen where CRLF-strict parsing
	// required a full CRLF.
	CRLFError
)

// CommandDecodeResult is returned by DecodeCommand.
type CommandDecodeResult struct {
	Outcome  Outcome
	Command  Command
	Consumed int

	// Valid when Outcome == LiteralFound.
	Tag    Tag
	Length uint32
	Mode   LiteralMode
}

// AuthenticateDataDecodeResult is returned by DecodeAuthenticateData.
type AuthenticateDataDecodeResult struct {
	Outcome  Outcome
	Data     AuthenticateData
	Consumed int
}

// GreetingDecodeResult is returned by DecodeGreeting.
type GreetingDecodeResult struct {
	Outcome  Outcome
	Greeting Greeting
	Consumed int
}

// ResponseDecodeResult is returned by DecodeResponse.
type ResponseDecodeResult struct {
	Outcome  Outcome
	Response Response
	Consumed int
}

// findLine locates the first line terminator in buf. A bare LF is only
// accepted when crlfRelaxed is true; otherwise it is reported as a
// protocol error via bareLF.
func findLine(buf []byte, crlfRelaxed bool) (end int, bareLF bool, found bool) {
	idx := bytes.IndexByte(buf, '\n')
	if idx < 0 {
		return 0, false, false
	}
	if idx > 0 && buf[idx-1] == '\r' {
		return idx - 1, false, true
	}
	if !crlfRelaxed {
		return idx, true, true
	}
	return idx, false, true
}

// DecodeCommand attempts to decode one command from buf. literalsStarted
// is the number of literal headers in this message that the caller has
// already accepted via the receive engine's StartLiteral, in order of
// appearance; any literal header beyond that count is reported fresh via
// LiteralFound.
func DecodeCommand(buf []byte, literalsStarted int, crlfRelaxed bool) CommandDecodeResult {
	spIdx := bytes.IndexByte(buf, ' ')
	if spIdx < 0 {
		if hasLineNoSpace(buf) {
			return CommandDecodeResult{Outcome: Failed}
		}
		return CommandDecodeResult{Outcome: Incomplete}
	}
	tag := Tag(buf[:spIdx])
	if len(tag) == 0 || bytes.IndexByte(buf[:spIdx], '\r') >= 0 {
		return CommandDecodeResult{Outcome: Failed}
	}

	rest := buf[spIdx+1:]
	nameEnd := indexOfAny(rest, ' ', '\r', '\n')
	if nameEnd < 0 {
		return CommandDecodeResult{Outcome: Incomplete}
	}
	name := strings.ToUpper(string(rest[:nameEnd]))

	switch name {
	case "AUTHENTICATE":
		return decodeAuthenticateCommand(buf, tag, spIdx+1+nameEnd, crlfRelaxed)
	case "IDLE":
		return decodeIdleCommand(buf, tag, spIdx+1+nameEnd, crlfRelaxed)
	default:
		return decodeGenericCommand(buf, tag, name, spIdx+1+nameEnd, literalsStarted, crlfRelaxed)
	}
}

func hasLineNoSpace(buf []byte) bool {
	return bytes.IndexByte(buf, '\n') >= 0
}

func indexOfAny(buf []byte, chars ...byte) int {
	for i, b := range buf {
		for _, c := range chars {
			if b == c {
				return i
			}
		}
	}
	return -1
}

func decodeAuthenticateCommand(buf []byte, tag Tag, tailStart int, crlfRelaxed bool) CommandDecodeResult {
	end, bareLF, found := findLine(buf[tailStart:], crlfRelaxed)
	if !found {
		return CommandDecodeResult{Outcome: Incomplete}
	}
	if bareLF {
		return CommandDecodeResult{Outcome: CRLFError}
	}

	line := strings.TrimPrefix(string(buf[tailStart:tailStart+end]), " ")
	fields := strings.Fields(line)
	if len(fields) == 0 || len(fields) > 2 {
		return CommandDecodeResult{Outcome: Failed}
	}

	cmd := Command{Tag: tag, Name: "AUTHENTICATE", Mechanism: strings.ToUpper(fields[0])}
	if len(fields) == 2 {
		decoded, err := base64.StdEncoding.DecodeString(fields[1])
		if err != nil {
			return CommandDecodeResult{Outcome: Failed}
		}
		cmd.InitialResponse = decoded
	}

	consumed := tailStart + end + lineTermLen(buf[tailStart+end:])
	return CommandDecodeResult{Outcome: Success, Command: cmd, Consumed: consumed}
}

func decodeIdleCommand(buf []byte, tag Tag, tailStart int, crlfRelaxed bool) CommandDecodeResult {
	end, bareLF, found := findLine(buf[tailStart:], crlfRelaxed)
	if !found {
		return CommandDecodeResult{Outcome: Incomplete}
	}
	if bareLF {
		return CommandDecodeResult{Outcome: CRLFError}
	}
	if strings.TrimSpace(string(buf[tailStart:tailStart+end])) != "" {
		return CommandDecodeResult{Outcome: Failed}
	}

	consumed := tailStart + end + lineTermLen(buf[tailStart+end:])
	return CommandDecodeResult{
		Outcome: Success,
		Command: Command{Tag: tag, Name: "IDLE"},
		Consumed: consumed,
	}
}

func lineTermLen(buf []byte) int {
	if len(buf) >= 2 && buf[0] == '\r' && buf[1] == '\n' {
		return 2
	}
	return 1
}

// decodeGenericCommand parses a space-separated argument list that may
// contain quoted strings and literals, up to the terminating CRLF.
func decodeGenericCommand(buf []byte, tag Tag, name string, pos int, literalsStarted int, crlfRelaxed bool) CommandDecodeResult {
	var args []Arg
	literalsSeen := 0

	for {
		if pos >= len(buf) {
			return CommandDecodeResult{Outcome: Incomplete}
		}

		if buf[pos] == '\r' || buf[pos] == '\n' {
			end, bareLF, found := findLine(buf[pos:], crlfRelaxed)
			if !found {
				return CommandDecodeResult{Outcome: Incomplete}
			}
			if bareLF {
				return CommandDecodeResult{Outcome: CRLFError}
			}
			if end != 0 {
				return CommandDecodeResult{Outcome: Failed}
			}
			consumed := pos + lineTermLen(buf[pos:])
			return CommandDecodeResult{
				Outcome:  Success,
				Consumed: consumed,
				Command:  Command{Tag: tag, Name: name, Args: args},
			}
		}

		if buf[pos] != ' ' {
			return CommandDecodeResult{Outcome: Failed}
		}
		pos++
		if pos >= len(buf) {
			return CommandDecodeResult{Outcome: Incomplete}
		}

		switch buf[pos] {
		case '"':
			closeIdx := bytes.IndexByte(buf[pos+1:], '"')
			if closeIdx < 0 {
				return CommandDecodeResult{Outcome: Incomplete}
			}
			value := buf[pos+1 : pos+1+closeIdx]
			args = append(args, Atom(string(value)))
			pos = pos + 1 + closeIdx + 1

		case '{':
			closeIdx := bytes.IndexByte(buf[pos:], '}')
			if closeIdx < 0 {
				return CommandDecodeResult{Outcome: Incomplete}
			}
			header := string(buf[pos+1 : pos+closeIdx])
			mode := Sync
			if strings.HasSuffix(header, "+") {
				mode = NonSync
				header = strings.TrimSuffix(header, "+")
			} else if strings.HasSuffix(header, "-") {
				header = strings.TrimSuffix(header, "-")
			}
			length, err := strconv.ParseUint(header, 10, 64)
			if err != nil {
				return CommandDecodeResult{Outcome: Failed}
			}
			if length > math.MaxUint32 {
				// An absurdly large literal is still a literal, not a
				// parse failure: let the caller's MaxLiteralSize check
				// reject it cleanly instead of discarding the whole
				// message as malformed.
				length = math.MaxUint32
			}

			headerEnd := pos + closeIdx + 1
			termLen, termBareLF, termMalformed, termFound := literalHeaderTerm(buf[headerEnd:], crlfRelaxed)
			if !termFound {
				return CommandDecodeResult{Outcome: Incomplete}
			}
			if termBareLF {
				return CommandDecodeResult{Outcome: CRLFError}
			}
			if termMalformed {
				return CommandDecodeResult{Outcome: Failed}
			}
			dataStart := headerEnd + termLen

			literalsSeen++
			if literalsSeen > literalsStarted {
				return CommandDecodeResult{
					Outcome: LiteralFound,
					Tag:     tag,
					Length:  uint32(length),
					Mode:    mode,
				}
			}

			if uint64(len(buf)-dataStart) < length {
				// The receive engine can resume decoding before all
				// of the promised bytes have arrived; report them as
				// "not available yet".
				return CommandDecodeResult{Outcome: Incomplete}
			}

			value := buf[dataStart : dataStart+int(length)]
			args = append(args, LiteralArg(append([]byte(nil), value...), mode))
			pos = dataStart + int(length)

		default:
			end := indexOfAny(buf[pos:], ' ', '\r', '\n')
			if end < 0 {
				return CommandDecodeResult{Outcome: Incomplete}
			}
			args = append(args, Atom(string(buf[pos:pos+end])))
			pos += end
		}
	}
}

// literalHeaderTerm finds the CRLF (or bare LF, if relaxed) immediately
// following a literal header's closing brace. bareLF distinguishes a
// CRLF-policy violation (recoverable) from malformed (a stray byte where
// a line terminator was expected).
func literalHeaderTerm(buf []byte, crlfRelaxed bool) (termLen int, bareLF bool, malformed bool, found bool) {
	if len(buf) == 0 {
		return 0, false, false, false
	}
	if buf[0] == '\r' {
		if len(buf) < 2 {
			return 0, false, false, false
		}
		if buf[1] != '\n' {
			return 0, false, true, true
		}
		return 2, false, false, true
	}
	if buf[0] == '\n' {
		if crlfRelaxed {
			return 1, false, false, true
		}
		return 0, true, false, true
	}
	return 0, false, true, true
}

// DecodeAuthenticateData decodes one line of SASL continuation data.
func DecodeAuthenticateData(buf []byte, crlfRelaxed bool) AuthenticateDataDecodeResult {
	end, bareLF, found := findLine(buf, crlfRelaxed)
	if !found {
		return AuthenticateDataDecodeResult{Outcome: Incomplete}
	}
	if bareLF {
		return AuthenticateDataDecodeResult{Outcome: CRLFError}
	}

	line := string(buf[:end])
	consumed := end + lineTermLen(buf[end:])

	if line == "*" {
		return AuthenticateDataDecodeResult{
			Outcome:  Success,
			Data:     AuthenticateData{Cancel: true},
			Consumed: consumed,
		}
	}

	decoded, err := base64.StdEncoding.DecodeString(line)
	if err != nil {
		return AuthenticateDataDecodeResult{Outcome: Failed}
	}

	return AuthenticateDataDecodeResult{
		Outcome:  Success,
		Data:     AuthenticateData{Value: decoded},
		Consumed: consumed,
	}
}

// DecodeGreeting decodes the server's initial greeting line.
func DecodeGreeting(buf []byte, crlfRelaxed bool) GreetingDecodeResult {
	end, bareLF, found := findLine(buf, crlfRelaxed)
	if !found {
		return GreetingDecodeResult{Outcome: Incomplete}
	}
	if bareLF {
		return GreetingDecodeResult{Outcome: CRLFError}
	}

	line := string(buf[:end])
	if !strings.HasPrefix(line, "* ") {
		return GreetingDecodeResult{Outcome: Failed}
	}
	fields := strings.SplitN(strings.TrimPrefix(line, "* "), " ", 2)
	kind, ok := parseStatusKind(fields[0])
	if !ok || (kind != StatusOK && kind != StatusPreauth && kind != StatusBye) {
		return GreetingDecodeResult{Outcome: Failed}
	}

	text := ""
	if len(fields) == 2 {
		text = fields[1]
	}
	code, text := extractCode(text)

	consumed := end + lineTermLen(buf[end:])
	return GreetingDecodeResult{
		Outcome:  Success,
		Greeting: Greeting{Kind: kind, Code: code, Text: text},
		Consumed: consumed,
	}
}

// DecodeResponse decodes one server response: a status, untagged data, or
// a continuation request.
func DecodeResponse(buf []byte, crlfRelaxed bool) ResponseDecodeResult {
	end, bareLF, found := findLine(buf, crlfRelaxed)
	if !found {
		return ResponseDecodeResult{Outcome: Incomplete}
	}
	if bareLF {
		return ResponseDecodeResult{Outcome: CRLFError}
	}

	line := string(buf[:end])
	consumed := end + lineTermLen(buf[end:])

	if strings.HasPrefix(line, "+") {
		text := strings.TrimSpace(strings.TrimPrefix(line, "+"))
		return ResponseDecodeResult{
			Outcome:  Success,
			Consumed: consumed,
			Response: Response{Kind: ResponseContinuationKind, Continuation: ContinuationRequest{Text: text}},
		}
	}

	if strings.HasPrefix(line, "* ") {
		tail := strings.TrimPrefix(line, "* ")
		if kind, ok := parseStatusKind(firstWord(tail)); ok && isStatusWord(firstWord(tail)) {
			code, text := extractCode(strings.TrimSpace(strings.TrimPrefix(tail, firstWord(tail))))
			scope := StatusUntagged
			if kind == StatusBye {
				scope = ScopeBye
			}
			return ResponseDecodeResult{
				Outcome:  Success,
				Consumed: consumed,
				Response: Response{Kind: ResponseStatus, Status: Status{Scope: scope, Kind: kind, Code: code, Text: text}},
			}
		}
		return ResponseDecodeResult{
			Outcome:  Success,
			Consumed: consumed,
			Response: Response{Kind: ResponseDataKind, Data: Data{Text: tail}},
		}
	}

	// Tagged status: "<tag> <kind> [code] text"
	fields := strings.SplitN(line, " ", 3)
	if len(fields) < 2 {
		return ResponseDecodeResult{Outcome: Failed}
	}
	kind, ok := parseStatusKind(fields[1])
	if !ok {
		return ResponseDecodeResult{Outcome: Failed}
	}
	text := ""
	if len(fields) == 3 {
		text = fields[2]
	}
	code, text := extractCode(text)

	return ResponseDecodeResult{
		Outcome:  Success,
		Consumed: consumed,
		Response: Response{
			Kind:   ResponseStatus,
			Status: Status{Scope: StatusTagged, Tag: Tag(fields[0]), Kind: kind, Code: code, Text: text},
		},
	}
}

func firstWord(s string) string {
	if idx := strings.IndexByte(s, ' '); idx >= 0 {
		return s[:idx]
	}
	return s
}

func isStatusWord(word string) bool {
	switch strings.ToUpper(word) {
	case "OK", "NO", "BAD", "BYE", "PREAUTH":
		return true
	default:
		return false
	}
}

func parseStatusKind(word string) (StatusKind, bool) {
	switch strings.ToUpper(word) {
	case "OK":
		return StatusOK, true
	case "NO":
		return StatusNO, true
	case "BAD":
		return StatusBAD, true
	case "BYE":
		return StatusBye, true
	case "PREAUTH":
		return StatusPreauth, true
	default:
		return 0, false
	}
}

// extractCode pulls a leading "[CODE]" response code out of text, if
// present.
func extractCode(text string) (code string, rest string) {
	if strings.HasPrefix(text, "[") {
		if idx := strings.IndexByte(text, ']'); idx > 0 {
			code = text[1:idx]
			rest = strings.TrimSpace(text[idx+1:])
			return code, rest
		}
	}
	return "", text
}
