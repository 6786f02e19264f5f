package sink

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/onnwee/chat-archiver/irc"
)

// DefaultRotationLimit is the size a log file must surpass before rotation,
// 16 MiB.
const DefaultRotationLimit = 1 << 24

// IRCOutput writes messages back out in wire format, one line each. Paired
// with ParseMessage it reproduces the input stream minus whatever
// compression removed.
type IRCOutput struct {
	w io.Writer
}

// NewIRCOutput wraps a writer (stdout, a file, a rotating writer).
func NewIRCOutput(w io.Writer) *IRCOutput { return &IRCOutput{w: w} }

func (o *IRCOutput) Write(m *irc.Message) error {
	_, err := io.WriteString(o.w, m.Wire()+"\n")
	return err
}

func (o *IRCOutput) Close() error { return closeIfCloser(o.w) }

// NewRotatingWriter returns a size-rotated writer that gzips rotated files.
// limitBytes below one megabyte rounds up to lumberjack's 1 MiB granularity;
// zero means DefaultRotationLimit.
func NewRotatingWriter(path string, limitBytes int) io.WriteCloser {
	if limitBytes <= 0 {
		limitBytes = DefaultRotationLimit
	}
	sizeMB := limitBytes >> 20
	if sizeMB < 1 {
		sizeMB = 1
	}
	return &lumberjack.Logger{
		Filename: path,
		MaxSize:  sizeMB,
		Compress: true,
	}
}
