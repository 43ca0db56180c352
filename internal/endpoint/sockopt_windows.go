//go:build windows
// +build windows

package endpoint

import (
	"golang.org/x/sys/windows"
)

// setBroadcastSockopt sets SO_BROADCAST on Windows.
func setBroadcastSockopt(fd int) error {
	return windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_BROADCAST, 1)
}

func setReuseAddrSockopt(fd int) error {
	return windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_REUSEADDR, 1)
}

func bindToDevice(_ int, ifname string) error {
	return errBindUnsupported(ifname)
}
