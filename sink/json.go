package sink

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/onnwee/chat-archiver/irc"
	"github.com/onnwee/chat-archiver/record"
)

// JSONOutput writes one projected record per line (the same shape the
// Elasticsearch sink sends, id included in the body).
type JSONOutput struct {
	w        io.Writer
	classify record.ClassifyFunc
}

// NewJSONOutput wraps a writer. classify may be nil, which omits the derived
// command-count fields.
func NewJSONOutput(w io.Writer, classify record.ClassifyFunc) *JSONOutput {
	return &JSONOutput{w: w, classify: classify}
}

func (o *JSONOutput) Write(m *irc.Message) error {
	rec := record.Project(m, o.classify)
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	_, err = o.w.Write(append(raw, '\n'))
	return err
}

func (o *JSONOutput) Close() error { return closeIfCloser(o.w) }
