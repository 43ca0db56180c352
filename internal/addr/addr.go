// Package addr validates the textual address and port given on the
// command line.
package addr

import (
	"errors"
	"fmt"
	"net/netip"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// MaxAddressLen is the longest dotted-quad, "255.255.255.255".
const MaxAddressLen = 15

var (
	ErrInvalidAddress = errors.New("invalid IPv4 address")
	ErrInvalidPort    = errors.New("invalid port")
)

var validate = validator.New()

// ParseAddress accepts a dotted-quad IPv4 address of at most 15 characters.
// The error says which rule the text broke.
func ParseAddress(text string) (netip.Addr, error) {
	if err := validate.Var(text, "required,max=15,ipv4"); err != nil {
		return netip.Addr{}, fmt.Errorf("%w %q: %s", ErrInvalidAddress, text, addressRule(err))
	}
	// the validator also lets through IPv4-mapped IPv6 forms
	ip, err := netip.ParseAddr(text)
	if err != nil || !ip.Is4() {
		return netip.Addr{}, fmt.Errorf("%w %q: not a dotted quad", ErrInvalidAddress, text)
	}
	return ip, nil
}

func addressRule(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	switch verrs[0].Tag() {
	case "required":
		return "empty"
	case "max":
		return fmt.Sprintf("longer than %d characters", MaxAddressLen)
	default:
		return "not an IPv4 address"
	}
}

// ParsePort accepts a base-10 integer in [0, 65535] with no sign or
// surrounding blanks.
func ParsePort(text string) (uint16, error) {
	if err := validate.Var(text, "required,number"); err != nil {
		return 0, fmt.Errorf("%w %q: not a base-10 integer", ErrInvalidPort, text)
	}
	port, err := strconv.ParseUint(text, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("%w %q: port should be between 0 and 65535", ErrInvalidPort, text)
	}
	return uint16(port), nil
}
