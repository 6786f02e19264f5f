package sink

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/onnwee/chat-archiver/irc"
	"github.com/onnwee/chat-archiver/record"
)

func TestJSONOutputWritesNDJSON(t *testing.T) {
	var buf bytes.Buffer
	out := NewJSONOutput(&buf, nil)

	m := irc.ParseMessage("@id=abc;tmi-sent-ts=1000 :nick PRIVMSG #chan :hello")
	if err := out.Write(&m); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	line := buf.String()
	if line[len(line)-1] != '\n' {
		t.Fatalf("output not newline terminated: %q", line)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		t.Fatalf("invalid json %q: %v", line, err)
	}
	if rec["_id"] != "abc" || rec["message"] != "hello" || rec["channel"] != "chan" {
		t.Errorf("record = %v", rec)
	}
}

func TestJSONOutputClassifier(t *testing.T) {
	var buf bytes.Buffer
	classify := func(string) record.Classification {
		return record.Classification{Parallel: [][]string{{"a", "b"}}, Pure: true}
	}
	out := NewJSONOutput(&buf, classify)

	m := irc.ParseMessage(":nick PRIVMSG #chan :!a !b")
	if err := out.Write(&m); err != nil {
		t.Fatal(err)
	}
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatal(err)
	}
	if rec["commands.count"] != float64(2) || rec["commands.only"] != true {
		t.Errorf("commands fields = %v / %v", rec["commands.count"], rec["commands.only"])
	}
}
