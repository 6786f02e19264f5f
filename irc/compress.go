package irc

import "strings"

// serviceHostSuffix is the host suffix of Twitch's own chat servers. A prefix
// host under it carries no information beyond the nick.
const serviceHostSuffix = ".tmi.twitch.tv"

// Tags that never justify their bytes in an archive: client-nonce is an
// opaque client echo token, emotes duplicates text already inline in the
// message body, and room-id is recoverable from the channel parameter.
func droppedTag(key string) bool {
	switch key {
	case "client-nonce", "emotes", "room-id":
		return true
	}
	return false
}

// Compress strips redundant metadata from a parsed message in place:
//
//   - prefix user and host are cleared when the host is one of Twitch's own
//     (they repeat the nick),
//   - the known low-value tags are removed outright,
//   - display-name is removed when it matches the prefix nick exactly,
//   - any tag whose unescaped value is empty or "0" is removed, since absence
//     and zero are equivalent defaults for Twitch's boolean and count tags.
//
// Compression applies to every command, not just PRIVMSG: the savings on
// USERNOTICE and CLEARCHAT lines are the same and a verb check buys nothing.
// It is pure mutation over already-parsed data and cannot fail.
func Compress(m *Message) {
	nick := ""
	if m.Prefix != nil {
		if strings.HasSuffix(m.Prefix.Host, serviceHostSuffix) {
			m.Prefix.Host = ""
			m.Prefix.User = ""
		}
		nick = m.Prefix.Nick
	}

	kept := m.Tags[:0]
	for _, t := range m.Tags {
		if droppedTag(t.Key) {
			continue
		}
		v := t.Value.Unescape()
		if t.Key == "display-name" && v == nick {
			continue
		}
		if v == "" || v == "0" {
			continue
		}
		kept = append(kept, t)
	}
	m.Tags = kept
}

// messageIDTag reports whether a tag holds a canonical message UUID and is
// eligible for compact re-encoding in the offline path.
func messageIDTag(key string) bool {
	switch key {
	case "id", "reply-parent-msg-id", "reply-thread-parent-msg-id":
		return true
	}
	return false
}

// EncodeMessageIDs rewrites message-id tags holding a canonical 36-character
// UUID into the compact base64 form, stored as literal values so they
// serialize unescaped. Values that are not canonical UUIDs are left alone.
// Only the offline batch path uses this; live output keeps ids verbatim.
func EncodeMessageIDs(m *Message) {
	for i := range m.Tags {
		t := &m.Tags[i]
		if !messageIDTag(t.Key) {
			continue
		}
		enc, err := EncodeLegacyID(t.Value.Unescape())
		if err != nil {
			continue
		}
		t.Value = LiteralValue(enc)
	}
}
