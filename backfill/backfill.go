// Package backfill repackages archived wire-format chat logs into
// Elasticsearch bulk ndjson files: one create-directive line plus one record
// line per message, accumulated into size-bounded chunks.
//
// Archived lines that cannot be indexed deterministically (no tmi-sent-ts or
// no id tag) are skipped, as are lines that fail to parse; nothing in this
// path is fatal except unreadable input or unwritable output.
package backfill

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/onnwee/chat-archiver/irc"
	"github.com/onnwee/chat-archiver/record"
)

// DefaultOutputPattern is the chunk filename pattern; '%' is replaced with
// the zero-based chunk index.
const DefaultOutputPattern = "backfill-%.ndjson"

// DefaultIndex is the bulk index target when none is configured.
const DefaultIndex = "twitch-logs"

// bulkCreate is the action line preceding each record in a bulk file.
type bulkCreate struct {
	Create struct {
		Index string `json:"_index"`
		ID    string `json:"_id"`
	} `json:"create"`
}

// Runner reads archived lines from In and writes bulk chunks.
type Runner struct {
	In            *bufio.Scanner
	OutputPattern string
	Index         string
	ChunkSize     int
	DontFilter    bool
	Classify      record.ClassifyFunc
}

// NewRunner wraps an input stream with a scanner sized for long chat lines.
func NewRunner(r io.Reader) *Runner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return &Runner{
		In:            sc,
		OutputPattern: DefaultOutputPattern,
		Index:         DefaultIndex,
	}
}

// Run processes the whole input. The accumulator flushes to a numbered file
// whenever appending the next unit would reach or exceed ChunkSize, and once
// more at end of input if anything remains. ChunkSize <= 0 means unbounded
// (a single output file).
func (r *Runner) Run(ctx context.Context) error {
	chunkSize := r.ChunkSize
	if chunkSize <= 0 {
		chunkSize = math.MaxInt
	}

	var buf bytes.Buffer
	chunkIdx := 0
	skipped, written := 0, 0

	for r.In.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := r.In.Text()
		if line == "" {
			continue
		}

		m := irc.ParseMessage(line)
		if m.Command == "" {
			slog.Warn("failed to parse line", slog.String("line", line))
			skipped++
			continue
		}
		if !r.DontFilter && irc.Ignored(m.Command) {
			continue
		}
		// Without a timestamp the record cannot be placed, and without an id
		// it cannot be created idempotently. Either way it is not indexable.
		if !m.HasTag("tmi-sent-ts") || !m.HasTag("id") {
			skipped++
			continue
		}

		irc.Compress(&m)
		if !r.repairReplyIDs(&m) {
			skipped++
			continue
		}

		rec := record.Project(&m, r.Classify)
		id := rec.ID
		if len(id) != 36 {
			decoded, err := irc.DecodeLegacyID(id)
			if err != nil {
				slog.Warn("unrepairable message id", slog.String("id", id), slog.Any("err", err))
				skipped++
				continue
			}
			id = decoded
		}
		rec.ID = "" // the id lives in the create directive

		unit, err := bulkUnit(r.Index, id, rec)
		if err != nil {
			return err
		}

		if buf.Len()+len(unit) >= chunkSize {
			if err := r.flush(&buf, chunkIdx); err != nil {
				return err
			}
			chunkIdx++
		}
		buf.Write(unit)
		written++
	}
	if err := r.In.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	if buf.Len() > 0 {
		if err := r.flush(&buf, chunkIdx); err != nil {
			return err
		}
		chunkIdx++
	}

	slog.Info("backfill complete",
		slog.Int("records", written),
		slog.Int("skipped", skipped),
		slog.Int("chunks", chunkIdx))
	return nil
}

// repairReplyIDs rewrites reply-parent id tags from the compact legacy
// encoding back to canonical UUID form. It reports false when a value is in
// neither form, which makes the whole line unindexable.
func (r *Runner) repairReplyIDs(m *irc.Message) bool {
	for i := range m.Tags {
		t := &m.Tags[i]
		if t.Key != "reply-parent-msg-id" && t.Key != "reply-thread-parent-msg-id" {
			continue
		}
		v := t.Value.Unescape()
		if len(v) == 36 {
			continue
		}
		decoded, err := irc.DecodeLegacyID(v)
		if err != nil {
			slog.Warn("unrepairable reply id", slog.String("tag", t.Key), slog.String("value", v), slog.Any("err", err))
			return false
		}
		t.Value = irc.LiteralValue(decoded)
	}
	return true
}

func bulkUnit(index, id string, rec record.Record) ([]byte, error) {
	var action bulkCreate
	action.Create.Index = index
	action.Create.ID = id
	header, err := json.Marshal(action)
	if err != nil {
		return nil, fmt.Errorf("marshal bulk action: %w", err)
	}
	body, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	unit := make([]byte, 0, len(header)+len(body)+2)
	unit = append(unit, header...)
	unit = append(unit, '\n')
	unit = append(unit, body...)
	unit = append(unit, '\n')
	return unit, nil
}

func (r *Runner) flush(buf *bytes.Buffer, idx int) error {
	path := strings.ReplaceAll(r.OutputPattern, "%", strconv.Itoa(idx))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write chunk %s: %w", path, err)
	}
	slog.Debug("wrote chunk", slog.String("path", path), slog.Int("bytes", buf.Len()))
	buf.Reset()
	return nil
}
