//go:build !windows
// +build !windows

package endpoint

import (
	"golang.org/x/sys/unix"
)

// setBroadcastSockopt sets SO_BROADCAST on Unix-like systems.
func setBroadcastSockopt(fd int) error {
	return unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
}

// setReuseAddrSockopt sets SO_REUSEADDR so several chats can share a port
// on one host.
func setReuseAddrSockopt(fd int) error {
	return unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
}
