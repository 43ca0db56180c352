package endpoint

import (
	"net"

	"golang.org/x/sys/unix"
)

// bindToDevice uses IP_BOUND_IF, the Darwin counterpart of SO_BINDTODEVICE.
func bindToDevice(fd int, ifname string) error {
	iface, err := net.InterfaceByName(ifname)
	if err != nil {
		return err
	}
	return unix.SetsockoptInt(fd, unix.IPPROTO_IP, unix.IP_BOUND_IF, iface.Index)
}
