package sink

import (
	"bytes"
	"strings"
	"testing"

	"github.com/onnwee/chat-archiver/irc"
)

func TestIRCOutputWritesLines(t *testing.T) {
	var buf bytes.Buffer
	out := NewIRCOutput(&buf)

	for _, line := range []string{
		"@badges=subscriber/1 :nick PRIVMSG #chan :hello",
		":nick PRIVMSG #chan :second",
	} {
		m := irc.ParseMessage(line)
		if err := out.Write(&m); err != nil {
			t.Fatalf("Write error: %v", err)
		}
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	want := "@badges=subscriber/1 :nick PRIVMSG #chan :hello\n:nick PRIVMSG #chan :second\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestNewRotatingWriterDefaults(t *testing.T) {
	w := NewRotatingWriter(t.TempDir()+"/chat.log", 0)
	defer w.Close()
	if _, err := w.Write([]byte("line\n")); err != nil {
		t.Fatalf("Write error: %v", err)
	}
}

func TestIRCOutputPreservesEscapedTags(t *testing.T) {
	var buf bytes.Buffer
	out := NewIRCOutput(&buf)
	m := irc.ParseMessage(`@system-msg=10\ssubs\sin\sa\srow! USERNOTICE #chan`)
	if err := out.Write(&m); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `10\ssubs\sin\sa\srow!`) {
		t.Errorf("escaped tag value not preserved verbatim: %q", buf.String())
	}
}
