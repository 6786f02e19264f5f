package irc

import "strings"

// TagValue is the value of a message tag in one of two states: raw (the
// escaped wire form, exactly as it appeared in the input) or literal (an
// already-resolved replacement, produced when compression rewrites a value).
// Serialization always emits the stored form verbatim in either state;
// Unescape decodes only raw values.
type TagValue struct {
	val     string
	literal bool
}

// RawValue wraps an escaped wire-form value.
func RawValue(s string) TagValue { return TagValue{val: s} }

// LiteralValue wraps a value that is already in final form. It is written to
// the wire as-is and exempt from unescape processing.
func LiteralValue(s string) TagValue { return TagValue{val: s, literal: true} }

// Wire returns the value exactly as it should appear on the wire.
func (v TagValue) Wire() string { return v.val }

// IsLiteral reports whether the value is in literal (already resolved) form.
func (v TagValue) IsLiteral() bool { return v.literal }

// Unescape returns the semantic form of the value. Literal values come back
// unchanged, as do raw values containing no backslash. Escape codes decode as
// \: -> ';', \s -> ' ', \r -> CR, \n -> LF; any other escaped character maps
// to itself, which also covers \\ -> '\'.
//
// A backslash followed immediately by another backslash or by nothing splits
// into an empty segment: that emits a single literal backslash and the
// segment after it is appended with no escape decoding of its first
// character. This mirrors the long-standing wire behavior for pathological
// backslash runs and is covered by targeted tests; do not tighten it.
func (v TagValue) Unescape() string {
	if v.literal {
		return v.val
	}
	i := strings.IndexByte(v.val, '\\')
	if i < 0 {
		return v.val
	}

	parts := strings.Split(v.val, "\\")
	var b strings.Builder
	b.Grow(len(v.val))
	b.WriteString(parts[0])

	skip := false
	for _, part := range parts[1:] {
		if skip {
			b.WriteString(part)
			skip = false
			continue
		}
		if part == "" {
			b.WriteByte('\\')
			skip = true
			continue
		}
		switch part[0] {
		case ':':
			b.WriteByte(';')
			b.WriteString(part[1:])
		case 's':
			b.WriteByte(' ')
			b.WriteString(part[1:])
		case 'r':
			b.WriteByte('\r')
			b.WriteString(part[1:])
		case 'n':
			b.WriteByte('\n')
			b.WriteString(part[1:])
		default:
			b.WriteString(part)
		}
	}
	return b.String()
}
