package netif

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"net/netip"

	"github.com/samber/lo"

	"ipv4chat/internal/logger"
)

// ErrNotFound means no local interface carries the requested address.
var ErrNotFound = errors.New("no interface owns this address")

// Entry is one IPv4 address assigned to a local interface.
type Entry struct {
	Name    string
	Address netip.Addr
	Mask    net.IPMask
}

// Info describes the interface chosen at startup.
type Info struct {
	Name      string
	Address   netip.Addr
	Mask      net.IPMask
	Broadcast netip.Addr
}

func (i Info) String() string {
	ones, _ := i.Mask.Size()
	return fmt.Sprintf("%s %s/%d brd %s", i.Name, i.Address, ones, i.Broadcast)
}

// Lister returns the live IPv4 address list of the host.
type Lister func() ([]Entry, error)

// Resolver looks addresses up in whatever its Lister reports. Nothing is
// cached between calls.
type Resolver struct {
	list Lister
}

// NewResolver builds a Resolver. A nil lister means the operating system.
func NewResolver(list Lister) *Resolver {
	if list == nil {
		list = SystemInterfaces
	}
	return &Resolver{list: list}
}

// FindInterfaceByAddress returns the name of the first interface whose
// IPv4 address equals addr.
func (r *Resolver) FindInterfaceByAddress(addr netip.Addr) (string, error) {
	e, err := r.lookup(addr)
	if err != nil {
		return "", err
	}
	logger.L().Debug("interface found", "ifname", e.Name, "ip", addr)
	return e.Name, nil
}

// ComputeBroadcastAddress returns the subnet-directed broadcast address
// of the interface that owns addr.
func (r *Resolver) ComputeBroadcastAddress(addr netip.Addr) (netip.Addr, error) {
	e, err := r.lookup(addr)
	if err != nil {
		return netip.Addr{}, err
	}
	brd := BroadcastOf(e.Address, e.Mask)
	logger.L().Debug("broadcast address computed", "ip", addr, "broadcast", brd)
	return brd, nil
}

// Resolve returns everything known about the interface that owns addr.
func (r *Resolver) Resolve(addr netip.Addr) (Info, error) {
	e, err := r.lookup(addr)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Name:      e.Name,
		Address:   e.Address,
		Mask:      e.Mask,
		Broadcast: BroadcastOf(e.Address, e.Mask),
	}, nil
}

func (r *Resolver) lookup(addr netip.Addr) (Entry, error) {
	entries, err := r.list()
	if err != nil {
		return Entry{}, fmt.Errorf("listing interfaces: %w", err)
	}
	e, ok := lo.Find(entries, func(e Entry) bool {
		return e.Address == addr
	})
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, addr)
	}
	return e, nil
}

// BroadcastOf computes (addr & mask) | ^mask over host-order IPv4 values.
// A mask that is not 4 bytes long is treated as /32.
func BroadcastOf(addr netip.Addr, mask net.IPMask) netip.Addr {
	a4 := addr.As4()
	ip := binary.BigEndian.Uint32(a4[:])

	m := uint32(0xffffffff)
	if len(mask) == net.IPv4len {
		m = binary.BigEndian.Uint32(mask)
	} else if len(mask) == net.IPv6len {
		m = binary.BigEndian.Uint32(mask[12:])
	}

	var out [4]byte
	binary.BigEndian.PutUint32(out[:], (ip&m)|^m)
	return netip.AddrFrom4(out)
}

// SystemInterfaces lists the IPv4 addresses of every interface, up or down,
// loopback included.
func SystemInterfaces() ([]Entry, error) {
	interfaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, iface := range interfaces {
		addrs, err := iface.Addrs()
		if err != nil {
			logger.L().Debug("skipping interface", "ifname", iface.Name, "err", err)
			continue
		}
		entries = append(entries, lo.FilterMap(addrs, func(a net.Addr, _ int) (Entry, bool) {
			return toEntry(iface.Name, a)
		})...)
	}
	return entries, nil
}

func toEntry(name string, a net.Addr) (Entry, bool) {
	ipnet, ok := a.(*net.IPNet)
	if !ok {
		return Entry{}, false
	}
	ip4 := ipnet.IP.To4()
	if ip4 == nil {
		return Entry{}, false
	}
	mask := ipnet.Mask
	if len(mask) == net.IPv6len {
		mask = mask[12:]
	}
	return Entry{
		Name:    name,
		Address: netip.AddrFrom4([4]byte(ip4)),
		Mask:    mask,
	}, true
}
