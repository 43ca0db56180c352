package chat

import (
	"net/netip"
)

//go:generate mockgen -source=transport.go -destination=mocks/transport.go -package=mocks

// PacketReader is the receiving half of the endpoint.
type PacketReader interface {
	ReadFrom(buf []byte) (int, netip.Addr, error)
}

// PacketWriter is the sending half of the endpoint.
type PacketWriter interface {
	WriteTo(payload []byte, dst netip.AddrPort) error
}

// LineReader hands out validated console lines.
type LineReader interface {
	ReadLine(limit int) (string, error)
}
