// Package endpoint opens the single UDP socket a chat process talks
// through: broadcast enabled, address reuse enabled, pinned to one
// interface and bound to 0.0.0.0:<port>.
package endpoint

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"runtime"
	"syscall"

	"ipv4chat/internal/logger"
)

// Configuration steps, in the order Open performs them.
const (
	StepSocket       = "socket"
	StepBroadcast    = "setsockopt: broadcast"
	StepReuseAddr    = "setsockopt: reuseaddr"
	StepBindToDevice = "setsockopt: bindtodevice"
	StepBind         = "bind"
)

// StepError tells which configuration step failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

func errBindUnsupported(ifname string) error {
	return fmt.Errorf("binding to interface %q is not supported on %s", ifname, runtime.GOOS)
}

// Sockopts applies the socket options. fd is the raw descriptor of a
// socket that is not bound yet.
type Sockopts interface {
	EnableBroadcast(fd int) error
	EnableAddressReuse(fd int) error
	BindToInterface(fd int, ifname string) error
}

// SystemSockopts talks to the operating system.
type SystemSockopts struct{}

func (SystemSockopts) EnableBroadcast(fd int) error    { return setBroadcastSockopt(fd) }
func (SystemSockopts) EnableAddressReuse(fd int) error { return setReuseAddrSockopt(fd) }
func (SystemSockopts) BindToInterface(fd int, ifname string) error {
	return bindToDevice(fd, ifname)
}

// Options for Open.
type Options struct {
	// Interface the socket is pinned to.
	Interface string
	// Port to listen on. Zero lets the kernel pick one.
	Port uint16
	// Sockopts defaults to SystemSockopts.
	Sockopts Sockopts
}

// Endpoint is the bound socket. One goroutine may receive while another
// sends; nothing else is shared.
type Endpoint struct {
	conn *net.UDPConn
}

// Open creates and configures the endpoint. Any failure is returned as a
// *StepError and leaves no socket open.
func Open(ctx context.Context, opts Options) (*Endpoint, error) {
	so := opts.Sockopts
	if so == nil {
		so = SystemSockopts{}
	}

	controlled := false
	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			controlled = true
			var stepErr error
			err := c.Control(func(fd uintptr) {
				stepErr = configure(so, int(fd), opts.Interface)
			})
			if err != nil {
				return &StepError{Step: StepSocket, Err: err}
			}
			return stepErr
		},
	}

	laddr := netip.AddrPortFrom(netip.IPv4Unspecified(), opts.Port)
	pc, err := lc.ListenPacket(ctx, "udp4", laddr.String())
	if err != nil {
		var se *StepError
		if errors.As(err, &se) {
			return nil, se
		}
		if !controlled {
			return nil, &StepError{Step: StepSocket, Err: err}
		}
		return nil, &StepError{Step: StepBind, Err: err}
	}

	e := &Endpoint{conn: pc.(*net.UDPConn)}
	logger.L().Debug("listening", "addr", e.LocalAddr(), "ifname", opts.Interface)
	return e, nil
}

func configure(so Sockopts, fd int, ifname string) error {
	if err := so.EnableBroadcast(fd); err != nil {
		return &StepError{Step: StepBroadcast, Err: err}
	}
	if err := so.EnableAddressReuse(fd); err != nil {
		return &StepError{Step: StepReuseAddr, Err: err}
	}
	if err := so.BindToInterface(fd, ifname); err != nil {
		return &StepError{Step: StepBindToDevice, Err: err}
	}
	return nil
}

// ReadFrom blocks until a datagram arrives and returns the sender's IPv4
// address.
func (e *Endpoint) ReadFrom(buf []byte) (int, netip.Addr, error) {
	n, from, err := e.conn.ReadFromUDPAddrPort(buf)
	if err != nil {
		return n, netip.Addr{}, err
	}
	return n, from.Addr().Unmap(), nil
}

// WriteTo sends one datagram. Short writes are reported as errors.
func (e *Endpoint) WriteTo(payload []byte, dst netip.AddrPort) error {
	n, err := e.conn.WriteToUDPAddrPort(payload, dst)
	if err != nil {
		return err
	}
	if n != len(payload) {
		return fmt.Errorf("short write to %s: %d of %d bytes", dst, n, len(payload))
	}
	return nil
}

// LocalAddr is the address the socket is bound to.
func (e *Endpoint) LocalAddr() netip.AddrPort {
	ap := e.conn.LocalAddr().(*net.UDPAddr).AddrPort()
	return netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port())
}

// Close unblocks a pending ReadFrom. Only the supervisor calls it.
func (e *Endpoint) Close() error {
	return e.conn.Close()
}

// IsClosed reports whether err comes from using a closed endpoint.
func IsClosed(err error) bool {
	return errors.Is(err, net.ErrClosed)
}
