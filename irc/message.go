package irc

import (
	"strings"
)

// Tag is a single key/value metadata pair from the leading @-blob of a line.
// Duplicate keys are preserved in source order; keyed lookups resolve to the
// last occurrence.
type Tag struct {
	Key   string
	Value TagValue
}

// Prefix is the optional nick[!user][@host] origin of a message. Empty User
// or Host means the corresponding part was absent.
type Prefix struct {
	Nick string
	User string
	Host string
}

// ParsePrefix splits a prefix token right to left: everything after the last
// '@' is the host, then everything after the last '!' in the remainder is the
// user, and what is left is the nick.
func ParsePrefix(raw string) Prefix {
	var p Prefix
	if i := strings.LastIndexByte(raw, '@'); i >= 0 {
		p.Host = raw[i+1:]
		raw = raw[:i]
	}
	if i := strings.LastIndexByte(raw, '!'); i >= 0 {
		p.User = raw[i+1:]
		raw = raw[:i]
	}
	p.Nick = raw
	return p
}

// Message is one decoded protocol line.
type Message struct {
	Tags    []Tag
	Prefix  *Prefix
	Command string
	Params  []string
}

// popBySpace removes and returns the first space-delimited token of *s.
// When no space remains the whole string is consumed.
func popBySpace(s *string) string {
	if i := strings.IndexByte(*s, ' '); i >= 0 {
		part := (*s)[:i]
		*s = (*s)[i+1:]
		return part
	}
	part := *s
	*s = ""
	return part
}

// ParseMessage decodes a single line of wire text. It never fails: a line
// with no command token yields a Message with an empty Command, which callers
// in the read loops detect and skip.
func ParseMessage(line string) Message {
	rest := line
	part := popBySpace(&rest)

	var tags []Tag
	if raw, ok := strings.CutPrefix(part, "@"); ok {
		entries := strings.Split(raw, ";")
		tags = make([]Tag, 0, len(entries))
		for _, kv := range entries {
			k, v, _ := strings.Cut(kv, "=")
			tags = append(tags, Tag{Key: k, Value: RawValue(v)})
		}
		part = popBySpace(&rest)
	}

	var prefix *Prefix
	if raw, ok := strings.CutPrefix(part, ":"); ok {
		p := ParsePrefix(raw)
		prefix = &p
		part = popBySpace(&rest)
	}

	command := part

	var params []string
	for rest != "" {
		if trailing, ok := strings.CutPrefix(rest, ":"); ok {
			params = append(params, trailing)
			break
		}
		params = append(params, popBySpace(&rest))
	}

	return Message{Tags: tags, Prefix: prefix, Command: command, Params: params}
}

// Wire serializes the message back to its line form. Tag values are written
// in their stored wire form, never re-escaped. The final parameter is written
// with a leading ':' unless it starts with '#': the only trailing parameter
// that must stay unprefixed in practice is a channel name, and Twitch never
// sends channels as trailing text.
func (m *Message) Wire() string {
	var b strings.Builder
	if len(m.Tags) > 0 {
		b.WriteByte('@')
		for i, t := range m.Tags {
			if i > 0 {
				b.WriteByte(';')
			}
			b.WriteString(t.Key)
			b.WriteByte('=')
			b.WriteString(t.Value.Wire())
		}
		b.WriteByte(' ')
	}
	if m.Prefix != nil {
		b.WriteByte(':')
		b.WriteString(m.Prefix.Nick)
		if m.Prefix.User != "" {
			b.WriteByte('!')
			b.WriteString(m.Prefix.User)
		}
		if m.Prefix.Host != "" {
			b.WriteByte('@')
			b.WriteString(m.Prefix.Host)
		}
		b.WriteByte(' ')
	}
	b.WriteString(m.Command)
	for i, p := range m.Params {
		b.WriteByte(' ')
		if i == len(m.Params)-1 && !strings.HasPrefix(p, "#") {
			b.WriteByte(':')
		}
		b.WriteString(p)
	}
	return b.String()
}

// TagGet returns the unescaped value of the last tag with the given key.
func (m *Message) TagGet(key string) (string, bool) {
	for i := len(m.Tags) - 1; i >= 0; i-- {
		if m.Tags[i].Key == key {
			return m.Tags[i].Value.Unescape(), true
		}
	}
	return "", false
}

// HasTag reports whether any tag with the given key is present.
func (m *Message) HasTag(key string) bool {
	_, ok := m.TagGet(key)
	return ok
}

// Ignored reports whether a command belongs to the fixed set of server noise
// that both the live session and the backfill skip by default: welcome
// numerics, NAMES/MOTD replies, capability acks, membership churn, and the
// keepalive verbs.
func Ignored(command string) bool {
	switch command {
	case "001", "002", "003", "004",
		"353", "366", "372", "375", "376",
		"CAP", "JOIN", "PONG", "PING", "RECONNECT":
		return true
	}
	return false
}
