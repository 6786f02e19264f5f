// Package record projects a parsed chat message into the typed log record
// used by the JSON and Elasticsearch sinks and the offline bulk repackager.
//
// Projection is deterministic and total: missing ids and timestamps are the
// only places it reaches for fresh data (a random UUID, the current wall
// clock). The embedded-command classifier is an external collaborator passed
// in as a function; a nil classifier simply omits the derived fields.
package record

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/onnwee/chat-archiver/irc"
)

// Classification is the result of the external embedded-command classifier:
// parallel token sequences found in the text and whether the text consisted
// of commands only.
type Classification struct {
	Parallel [][]string
	Pure     bool
}

// ClassifyFunc classifies chat-message text. It is treated as opaque; only
// the summed sequence length and the purity flag are consumed.
type ClassifyFunc func(text string) Classification

// Record is one chat message in its indexed form. Field names match the
// Elasticsearch mapping, so _id sits in the document unless it is moved into
// the request path, and the timestamp is @timestamp in epoch milliseconds.
type Record struct {
	ID            string         `json:"_id,omitempty"`
	Timestamp     int64          `json:"@timestamp"`
	Channel       string         `json:"channel,omitempty"`
	Name          string         `json:"name,omitempty"`
	Message       string         `json:"message,omitempty"`
	Tags          map[string]any `json:"tags"`
	IRCNick       string         `json:"irc.nick,omitempty"`
	IRCCmd        string         `json:"irc.cmd"`
	IRCExtras     []string       `json:"irc.extras,omitempty"`
	CommandsOnly  bool           `json:"commands.only,omitempty"`
	CommandsCount int            `json:"commands.count,omitempty"`
}

// coerceTagValue types a generic tag value: "1" is Twitch's true, anything
// that parses as an integer stays numeric, the rest stays text.
func coerceTagValue(v string) any {
	if v == "1" {
		return true
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	return v
}

// parseBadges splits a badges/badge-info value ("subscriber/12,vip/1") into
// a nested object keyed by badge name, with numeric values when they parse.
func parseBadges(v string) map[string]any {
	out := make(map[string]any)
	for _, entry := range strings.Split(v, ",") {
		name, val, _ := strings.Cut(entry, "/")
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			out[name] = n
		} else {
			out[name] = val
		}
	}
	return out
}

// Project converts a normalized message into a Record.
//
// Tags are walked once, in order, so duplicate keys resolve last-wins.
// badges and badge-info become nested objects; id and tmi-sent-ts are
// consumed into the dedicated fields and never appear in the tag map;
// display-name is consumed into name. Keys ending in "-id" are kept as
// strings no matter how numeric they look: those are opaque Twitch ids and
// must not pick up integer semantics or float precision loss downstream.
func Project(m *irc.Message, classify ClassifyFunc) Record {
	tags := make(map[string]any, len(m.Tags))
	var id, rawTS, displayName string
	hasDisplayName := false

	for _, t := range m.Tags {
		v := t.Value.Unescape()
		switch {
		case t.Key == "badges" || t.Key == "badge-info":
			tags[t.Key] = parseBadges(v)
		case t.Key == "id":
			id = v
		case t.Key == "tmi-sent-ts":
			rawTS = v
		case t.Key == "display-name":
			displayName = v
			hasDisplayName = true
		case strings.HasSuffix(t.Key, "-id"):
			tags[t.Key] = v
		default:
			tags[t.Key] = coerceTagValue(v)
		}
	}

	if id == "" {
		id = uuid.NewString()
	}
	ts, err := strconv.ParseInt(rawTS, 10, 64)
	if rawTS == "" || err != nil {
		ts = time.Now().UnixMilli()
	}

	rec := Record{
		ID:        id,
		Timestamp: ts,
		Tags:      tags,
		IRCCmd:    m.Command,
	}

	if m.Prefix != nil {
		rec.IRCNick = m.Prefix.Nick
	}
	if hasDisplayName {
		rec.Name = displayName
	} else {
		rec.Name = rec.IRCNick
	}

	if len(m.Params) > 0 {
		if ch, ok := strings.CutPrefix(m.Params[0], "#"); ok {
			rec.Channel = ch
		}
	}

	switch {
	case len(m.Params) > 1:
		rec.Message = m.Params[1]
	default:
		// No body: fall back to Twitch's own description of the event.
		if v, ok := tags["system-msg"].(string); ok {
			rec.Message = v
		} else if v, ok := tags["msg-id"].(string); ok {
			rec.Message = v
		}
	}

	if m.Command == "PRIVMSG" && rec.Message != "" && classify != nil {
		c := classify(rec.Message)
		count := 0
		for _, seq := range c.Parallel {
			count += len(seq)
		}
		if count > 0 {
			rec.CommandsCount = count
			rec.CommandsOnly = c.Pure
		}
	}

	if len(m.Params) > 2 {
		rec.IRCExtras = append(rec.IRCExtras, m.Params[2:]...)
	}

	return rec
}
