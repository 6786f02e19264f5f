package irc

import "testing"

func TestUnescape(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"no escapes", "plain-value", "plain-value"},
		{"semicolon", `a\:b`, "a;b"},
		{"space", `hi\sthere`, "hi there"},
		{"newline", `line1\nline2`, "line1\nline2"},
		{"carriage return", `a\rb`, "a\rb"},
		{"escaped backslash", `a\\b`, `a\b`},
		{"unknown code maps to itself", `a\xb`, "axb"},
		{"mixed", `a\:b\sc\nd`, "a;b c\nd"},
		{"system msg", `10\ssubs\sin\sa\srow!`, "10 subs in a row!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RawValue(tt.raw).Unescape()
			if got != tt.want {
				t.Errorf("Unescape(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

// The empty-segment path: a backslash run produces a literal backslash and
// the following segment is appended without decoding its first character.
// This behavior is load-bearing for round-trip fidelity of old archives;
// these tests pin it exactly.
func TestUnescapeBackslashRuns(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"trailing backslash", `abc\`, `abc\`},
		{"double backslash tail", `abc\\`, `abc\`},
		{"backslash then text undecoded", `a\\sb`, `a\sb`},
		{"triple backslash", `a\\\b`, `a\b`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RawValue(tt.raw).Unescape()
			if got != tt.want {
				t.Errorf("Unescape(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestLiteralValueBypassesUnescape(t *testing.T) {
	v := LiteralValue(`a\sb`)
	if got := v.Unescape(); got != `a\sb` {
		t.Errorf("literal Unescape() = %q, want the stored text back", got)
	}
	if got := v.Wire(); got != `a\sb` {
		t.Errorf("literal Wire() = %q, want the stored text back", got)
	}
	if !v.IsLiteral() {
		t.Error("IsLiteral() = false for LiteralValue")
	}
	if RawValue("x").IsLiteral() {
		t.Error("IsLiteral() = true for RawValue")
	}
}

func TestWirePreservesEscapedForm(t *testing.T) {
	v := RawValue(`a\sb`)
	if got := v.Wire(); got != `a\sb` {
		t.Errorf("Wire() = %q, want %q", got, `a\sb`)
	}
}
