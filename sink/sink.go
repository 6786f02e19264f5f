// Package sink contains the output backends a session or backfill writes
// into: faithful wire-format logs, newline-delimited JSON records, and an
// Elasticsearch index. The backend is chosen once at startup; afterwards the
// rest of the pipeline only sees the Output interface.
package sink

import (
	"io"

	"github.com/onnwee/chat-archiver/irc"
)

// Output accepts one normalized message at a time.
type Output interface {
	Write(m *irc.Message) error
	Close() error
}

// closeIfCloser closes w when it owns a closable resource (files, rotating
// writers); plain writers like os.Stdout pass through untouched.
func closeIfCloser(w io.Writer) error {
	if c, ok := w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
