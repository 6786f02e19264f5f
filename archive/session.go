package archive

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"strings"
	"time"

	"crypto/tls"

	"github.com/onnwee/chat-archiver/irc"
	"github.com/onnwee/chat-archiver/sink"
	"github.com/onnwee/chat-archiver/telemetry"
)

// DefaultAddr is Twitch's TLS chat endpoint.
const DefaultAddr = "irc.chat.twitch.tv:6697"

// anonymousPass is the password Twitch accepts for read-only justinfan
// logins.
const anonymousPass = "SCHMOOPIIE"

// Dialer opens the transport. The default dials TLS to the configured
// address; tests substitute an in-memory conn.
type Dialer func(ctx context.Context, addr string) (net.Conn, error)

func defaultDialer(ctx context.Context, addr string) (net.Conn, error) {
	d := tls.Dialer{NetDialer: &net.Dialer{Timeout: 10 * time.Second}}
	return d.DialContext(ctx, "tcp", addr)
}

// permanentError marks a failure that must not trigger a reconnect (sink
// write failures). Transport failures stay plain and recoverable.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Session streams chat from the server to a single output sink, maintaining
// the connection across drops: handshake, keepalive replies, forced
// reconnects, and exponential backoff between attempts.
type Session struct {
	Addr       string
	Nick       string
	Pass       string
	Channels   []string
	DontFilter bool
	Output     sink.Output

	// Dial defaults to a TLS dial of Addr.
	Dial Dialer

	// backoffUnit scales the reconnect delays; tests shrink it.
	backoffUnit time.Duration
}

// Run drives the session until the context is canceled or the reconnect
// budget is exhausted. It is the only goroutine touching the connection; the
// backoff state lives here and nowhere else.
func (s *Session) Run(ctx context.Context) error {
	bo := newBackoff(s.backoffUnit)
	for {
		err := s.runOnce(ctx, &bo)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}

		delay, ok := bo.next()
		if !ok {
			return fmt.Errorf("reconnect attempts exhausted: %w", err)
		}
		telemetry.Reconnects.Inc()
		slog.Warn("chat session ended; reconnecting",
			slog.Any("err", err),
			slog.Duration("delay", delay))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// runOnce performs one connect/handshake/stream cycle. A nil return never
// happens in practice (the server does not hang up cleanly); any return is
// either a recoverable transport failure or a permanentError.
func (s *Session) runOnce(ctx context.Context, bo *backoff) error {
	dial := s.Dial
	if dial == nil {
		dial = defaultDialer
	}
	addr := s.Addr
	if addr == "" {
		addr = DefaultAddr
	}

	conn, err := dial(ctx, addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer func() {
		if err := conn.Close(); err != nil && ctx.Err() == nil {
			slog.Debug("close connection", slog.Any("err", err))
		}
	}()
	// Unblock the read loop if the context is canceled mid-read.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if err := s.handshake(conn); err != nil {
		return fmt.Errorf("handshake: %w", err)
	}
	bo.reset() // streaming

	br := bufio.NewReader(conn)
	for {
		raw, err := br.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		telemetry.LinesRead.Inc()
		line := strings.TrimRight(raw, "\r\n")
		if line == "" {
			continue
		}

		m := irc.ParseMessage(line)
		if m.Command == "" {
			slog.Warn("skipping unparseable line", slog.String("line", line))
			continue
		}

		// Keepalive reply goes out before anything else happens to the line.
		if m.Command == "PING" {
			pong := irc.Message{Command: "PONG", Params: m.Params}
			if _, err := conn.Write([]byte(pong.Wire() + "\r\n")); err != nil {
				return fmt.Errorf("write pong: %w", err)
			}
			continue
		}
		if m.Command == "RECONNECT" {
			return errors.New("server requested reconnect")
		}
		if !s.DontFilter && irc.Ignored(m.Command) {
			telemetry.MessagesFiltered.Inc()
			continue
		}

		irc.Compress(&m)
		if err := s.Output.Write(&m); err != nil {
			return &permanentError{err: fmt.Errorf("write output: %w", err)}
		}
		telemetry.MessagesWritten.Inc()
	}
}

// handshake authenticates (anonymous justinfan login when no nick is
// configured), requests the tag and command capabilities, and joins the
// configured channels in lowercase.
func (s *Session) handshake(conn net.Conn) error {
	nick := s.Nick
	pass := s.Pass
	if nick == "" {
		nick = fmt.Sprintf("justinfan%d", 10000+rand.Intn(90000))
		pass = anonymousPass
	}

	var b strings.Builder
	if pass != "" {
		b.WriteString("PASS " + pass + "\r\n")
	}
	b.WriteString("NICK " + nick + "\r\n")
	b.WriteString("CAP REQ :twitch.tv/tags twitch.tv/commands\r\n")
	for _, ch := range s.Channels {
		b.WriteString("JOIN #" + strings.ToLower(ch) + "\r\n")
	}
	_, err := conn.Write([]byte(b.String()))
	return err
}
