// Package archive runs the live mode: a single session that connects to
// Twitch chat over TLS, handshakes, joins the configured channels, and
// streams every surviving line into one output sink.
//
// The session is one logical thread of control. Reads block, backoff sleeps
// block, and the only state that outlives a connection is the reconnect
// delay. Failures split into two classes: transport failures (dial, read,
// forced RECONNECT) feed the backoff loop and are retried until the delay cap
// is exhausted; sink write failures stop the session immediately, since
// retrying the connection would not make the output writable.
package archive
