package chat

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/netip"

	"github.com/gookit/color"
)

// maxUDPPayload is the largest IPv4 UDP payload. Anything may reach the
// port, not only datagrams our peers build.
const maxUDPPayload = 65507

// Receiver prints every datagram that reaches the endpoint as
// "[<sender>] <payload>".
type Receiver struct {
	conn     PacketReader
	out      io.Writer
	log      *slog.Logger
	colorize bool
}

func NewReceiver(conn PacketReader, out io.Writer, log *slog.Logger, colorize bool) *Receiver {
	return &Receiver{conn: conn, out: out, log: log, colorize: colorize}
}

// Run receives until the endpoint fails. A failure caused by the
// supervisor closing the endpoint after ctx was cancelled is not an error.
func (r *Receiver) Run(ctx context.Context) error {
	buf := make([]byte, maxUDPPayload)
	for {
		n, from, err := r.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("recvfrom: %w", err)
		}
		if n > MaxDatagram {
			r.log.Debug("oversize datagram", "from", from, "size", n)
		}
		if _, err := io.WriteString(r.out, r.render(from, buf[:n])); err != nil {
			return fmt.Errorf("writing message: %w", err)
		}
	}
}

func (r *Receiver) render(from netip.Addr, payload []byte) string {
	tag := "[" + from.String() + "]"
	if r.colorize {
		tag = color.FgCyan.Render(tag)
	}
	return tag + " " + string(payload)
}
