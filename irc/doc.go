// Package irc implements the IRCv3 line codec used by the archiver: parsing a
// raw line into a Message, serializing it back bit-exact, the tag-value
// escape handling, and the compression pass that strips metadata Twitch sends
// redundantly on every line.
//
// Messages are short-lived: one is parsed per input line, consumed by a sink
// or projection, and discarded before the next line is read. Tag values keep
// their original escaped wire form so re-serialization reproduces the input
// byte for byte; unescaping happens only when a value is consumed
// semantically (JSON projection, comparisons).
package irc
