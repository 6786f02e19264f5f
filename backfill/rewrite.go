package backfill

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/onnwee/chat-archiver/irc"
	"github.com/onnwee/chat-archiver/sink"
)

// RewriteWire re-compresses an archived wire log: each line is parsed, run
// through the ignore filter unless dontFilter is set, normalized, and written
// back out in wire form. With compactIDs the message-id tags are re-encoded
// to the short literal form, matching archives produced by the older
// normalization policy.
func RewriteWire(ctx context.Context, in io.Reader, out sink.Output, dontFilter, compactIDs bool) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	skipped, written := 0, 0
	for sc.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := sc.Text()
		if line == "" {
			continue
		}

		m := irc.ParseMessage(line)
		if m.Command == "" {
			slog.Warn("failed to parse line", slog.String("line", line))
			skipped++
			continue
		}
		if !dontFilter && irc.Ignored(m.Command) {
			continue
		}

		irc.Compress(&m)
		if compactIDs {
			irc.EncodeMessageIDs(&m)
		}
		if err := out.Write(&m); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		written++
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	slog.Info("rewrite complete", slog.Int("records", written), slog.Int("skipped", skipped))
	return nil
}
