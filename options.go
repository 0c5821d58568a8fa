package imapflow

// ClientOptions configures a ClientFlow.
type ClientOptions struct {
	// CRLFRelaxed, if true, accepts a bare LF where CRLF is expected.
	CRLFRelaxed bool
}

// DefaultClientOptions leans towards usability by accepting bare LF.
func DefaultClientOptions() ClientOptions {
	return ClientOptions{CRLFRelaxed: true}
}

// ServerOptions configures a ServerFlow.
type ServerOptions struct {
	// CRLFRelaxed, if true, accepts a bare LF where CRLF is expected.
	CRLFRelaxed bool
	// MaxLiteralSize is the largest literal, in bytes, the server will
	// accept in a single announcement. Defaults to 25 MiB, a common
	// maximum email size.
	MaxLiteralSize uint32
	// LiteralAcceptText is the human-readable text sent in the
	// continuation response when a literal is accepted.
	LiteralAcceptText string
	// LiteralRejectText is the text sent in the NO status when an
	// oversized literal is rejected.
	LiteralRejectText string
}

// DefaultServerOptions returns conservative production defaults.
func DefaultServerOptions() ServerOptions {
	return ServerOptions{
		CRLFRelaxed:       true,
		MaxLiteralSize:    25 * 1024 * 1024,
		LiteralAcceptText: "...",
		LiteralRejectText: "Literal too large",
	}
}
