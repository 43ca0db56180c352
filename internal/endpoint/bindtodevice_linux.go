package endpoint

import (
	"golang.org/x/sys/unix"
)

// bindToDevice restricts the socket to one interface with SO_BINDTODEVICE.
func bindToDevice(fd int, ifname string) error {
	return unix.BindToDevice(fd, ifname)
}
