package imapflow

import (
	"io"

	"github.com/pkg/errors"
)

// AnyStream is the byte-oriented full-duplex stream this package
// consumes. net.Conn and *tls.Conn have no WriteAll method;
// NewConnStream adapts either one.
type AnyStream interface {
	io.Reader
	// WriteAll writes the entirety of p, resuming a partial write
	// across calls if the underlying connection only accepted part of
	// a previous buffer.
	WriteAll(p []byte) error
}

// connStream adapts a plain io.ReadWriter (net.Conn, *tls.Conn, or a
// test double such as net.Pipe) to AnyStream.
type connStream struct {
	rw io.ReadWriter
}

// NewConnStream wraps rw as an AnyStream.
func NewConnStream(rw io.ReadWriter) AnyStream {
	return &connStream{rw: rw}
}

func (s *connStream) Read(p []byte) (int, error) {
	return s.rw.Read(p)
}

func (s *connStream) WriteAll(p []byte) error {
	for len(p) > 0 {
		n, err := s.rw.Write(p)
		if err != nil {
			return errors.Wrap(err, "imapflow: short write to stream")
		}
		p = p[n:]
	}
	return nil
}
