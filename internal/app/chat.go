package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/netip"
	"sync"

	"golang.org/x/sync/errgroup"

	"ipv4chat/internal/addr"
	"ipv4chat/internal/chat"
	"ipv4chat/internal/config"
	"ipv4chat/internal/console"
	"ipv4chat/internal/endpoint"
	"ipv4chat/internal/logger"
	"ipv4chat/internal/netif"
)

// ResolvePolicy decides what happens when no interface owns the address
// given on the command line.
type ResolvePolicy int

const (
	// ResolveFail gives up; the process exits non-zero.
	ResolveFail ResolvePolicy = iota
	// ResolvePrompt asks for another address on the console.
	ResolvePrompt
)

// Options gathers everything NewChat needs. Zero values pick the real
// operating system and standard streams where that makes sense.
type Options struct {
	Address netip.Addr
	Port    uint16
	Config  *config.Config

	In       io.Reader
	Out      io.Writer
	Colorize bool

	Resolver *netif.Resolver
	Sockopts endpoint.Sockopts
}

// Chat is one running chat process: a resolved interface, a nickname and
// a configured endpoint shared by the receive and send loops.
type Chat struct {
	config  *config.Config
	log     *slog.Logger
	out     io.Writer
	console *console.Reader

	iface    netif.Info
	session  chat.Session
	endpoint *endpoint.Endpoint
	target   netip.AddrPort

	receiver *chat.Receiver
	sender   *chat.Sender

	closeOnce sync.Once
}

// NewChat runs the sequential startup: resolve the interface, ask for a
// nickname, open the endpoint. Nothing touches the network before the
// interface is known.
func NewChat(ctx context.Context, opts Options) (*Chat, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = netif.NewResolver(nil)
	}

	out := console.NewSyncWriter(opts.Out)
	c := &Chat{
		config:  cfg,
		log:     logger.L(),
		out:     out,
		console: console.NewReader(opts.In, out),
	}
	c.log.Debug("starting", "ip", opts.Address, "port", opts.Port)

	iface, err := c.resolve(ctx, resolver, opts.Address, resolvePolicy(cfg))
	if err != nil {
		return nil, err
	}
	c.iface = iface
	c.log.Debug("interface resolved", "ifname", iface.Name, "broadcast", iface.Broadcast)

	if c.session, err = c.askNickname(ctx); err != nil {
		return nil, err
	}
	fmt.Fprintf(c.out, "Welcome, %s!\n", c.session.Nickname())

	c.endpoint, err = endpoint.Open(ctx, endpoint.Options{
		Interface: iface.Name,
		Port:      opts.Port,
		Sockopts:  opts.Sockopts,
	})
	if err != nil {
		return nil, err
	}

	c.target = broadcastTarget(cfg.Mode(), iface, opts.Port)
	c.log.Debug("broadcast target", "mode", cfg.Mode(), "target", c.target)

	c.receiver = chat.NewReceiver(c.endpoint, c.out, c.log, opts.Colorize)
	c.sender = chat.NewSender(c.console, c.endpoint, c.session, c.target, c.out, c.log, cfg.Debug)
	return c, nil
}

func resolvePolicy(cfg *config.Config) ResolvePolicy {
	if cfg.RetryResolve {
		return ResolvePrompt
	}
	return ResolveFail
}

// resolve is the single place deciding whether a missing interface ends
// the process or leads to another attempt.
func (c *Chat) resolve(ctx context.Context, r *netif.Resolver, ip netip.Addr, policy ResolvePolicy) (netif.Info, error) {
	for {
		info, err := r.Resolve(ip)
		if err == nil {
			return info, nil
		}
		if policy != ResolvePrompt || !errors.Is(err, netif.ErrNotFound) {
			return netif.Info{}, fmt.Errorf("error getting interface name from IP %s: %w", ip, err)
		}

		fmt.Fprintf(c.out, "No interface has address %s.\n", ip)
		if ip, err = c.askAddress(ctx); err != nil {
			return netif.Info{}, err
		}
	}
}

func (c *Chat) askAddress(ctx context.Context) (netip.Addr, error) {
	for {
		c.console.Prompt("Please enter this machine's IPv4 address: ")
		text, err := c.readLine(ctx, addr.MaxAddressLen)
		if err != nil {
			return netip.Addr{}, fmt.Errorf("error getting input string: %w", err)
		}
		ip, err := addr.ParseAddress(text)
		if err == nil {
			return ip, nil
		}
		fmt.Fprintf(c.out, "ERROR: %v\n", err)
	}
}

func (c *Chat) askNickname(ctx context.Context) (chat.Session, error) {
	c.console.Prompt("Please enter your nickname (%d bytes max): ", chat.MaxNickname)
	nickname, err := c.readLine(ctx, chat.MaxNickname)
	if err != nil {
		return chat.Session{}, fmt.Errorf("error getting input string: %w", err)
	}
	return chat.NewSession(nickname)
}

type consoleLine struct {
	text string
	err  error
}

// readLine gives up on a blocked console read once ctx is cancelled. The
// abandoned read ends with the next line or with the process.
func (c *Chat) readLine(ctx context.Context, limit int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	done := make(chan consoleLine, 1)
	go func() {
		text, err := c.console.ReadLine(limit)
		done <- consoleLine{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l := <-done:
		return l.text, l.err
	}
}

func broadcastTarget(mode config.BroadcastMode, iface netif.Info, port uint16) netip.AddrPort {
	if mode == config.BroadcastSubnet {
		return netip.AddrPortFrom(iface.Broadcast, port)
	}
	return netip.AddrPortFrom(netip.AddrFrom4([4]byte{255, 255, 255, 255}), port)
}

// Run supervises the receive and send loops. The first loop to fail, or
// the cancellation of ctx, stops both: the endpoint is closed so that a
// blocked receive returns. Run returns once both loops are done, with
// the first fatal error if there was one.
func (c *Chat) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	stop := context.AfterFunc(gctx, c.Close)
	defer stop()

	g.Go(func() error { return c.receiver.Run(gctx) })
	g.Go(func() error { return c.sender.Run(gctx) })

	err := g.Wait()
	c.log.Debug("all loops finished", "err", err)
	return err
}

// Close releases the endpoint. Safe to call more than once.
func (c *Chat) Close() {
	c.closeOnce.Do(func() {
		if c.endpoint == nil {
			return
		}
		if err := c.endpoint.Close(); err != nil {
			c.log.Warn("closing endpoint", "err", err)
		}
	})
}

// Interface returns the interface the chat is bound to.
func (c *Chat) Interface() netif.Info {
	return c.iface
}

// Target returns where outgoing messages are sent.
func (c *Chat) Target() netip.AddrPort {
	return c.target
}

// LocalAddr returns the bound address of the endpoint.
func (c *Chat) LocalAddr() netip.AddrPort {
	return c.endpoint.LocalAddr()
}
