//go:build !linux && !darwin && !windows

package endpoint

func bindToDevice(_ int, ifname string) error {
	return errBindUnsupported(ifname)
}
