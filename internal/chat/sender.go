package chat

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/netip"

	"ipv4chat/internal/console"
)

// Sender broadcasts every line typed on the console.
type Sender struct {
	lines   LineReader
	conn    PacketWriter
	session Session
	target  netip.AddrPort
	out     io.Writer
	log     *slog.Logger
	debug   bool
}

func NewSender(lines LineReader, conn PacketWriter, session Session, target netip.AddrPort, out io.Writer, log *slog.Logger, debug bool) *Sender {
	return &Sender{
		lines:   lines,
		conn:    conn,
		session: session,
		target:  target,
		out:     out,
		log:     log,
		debug:   debug,
	}
}

type typedLine struct {
	text string
	err  error
}

// Run sends until the console or the endpoint fails, or ctx is cancelled.
// The console is read on a separate goroutine so that cancellation never
// waits on a blocked terminal read; that goroutine exits with the next
// line or with the process.
func (s *Sender) Run(ctx context.Context) error {
	lines := make(chan typedLine)
	go s.pump(ctx, lines)

	for {
		var l typedLine
		select {
		case <-ctx.Done():
			return nil
		case l = <-lines:
		}
		if l.err != nil {
			return fmt.Errorf("reading console: %w", l.err)
		}

		payload, err := s.session.Envelope(l.text)
		if err != nil {
			return err
		}
		console.EraseLastLine(s.out, s.debug)
		s.log.Debug("sending", "to", s.target, "payload", string(payload))

		if err := s.conn.WriteTo(payload, s.target); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("sendto %s: %w", s.target, err)
		}
	}
}

func (s *Sender) pump(ctx context.Context, lines chan<- typedLine) {
	for {
		text, err := s.lines.ReadLine(MaxMessage)
		select {
		case lines <- typedLine{text: text, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}
