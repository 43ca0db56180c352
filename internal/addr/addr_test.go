package addr

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  netip.Addr
		ok    bool
	}{
		{"private", "192.168.1.10", netip.MustParseAddr("192.168.1.10"), true},
		{"longest", "255.255.255.255", netip.MustParseAddr("255.255.255.255"), true},
		{"zero", "0.0.0.0", netip.MustParseAddr("0.0.0.0"), true},
		{"empty", "", netip.Addr{}, false},
		{"three octets", "10.0.1", netip.Addr{}, false},
		{"octet overflow", "10.0.0.256", netip.Addr{}, false},
		{"hostname", "localhost", netip.Addr{}, false},
		{"ipv6", "::1", netip.Addr{}, false},
		{"mapped ipv6", "::ffff:10.0.0.1", netip.Addr{}, false},
		{"too long", "192.168.100.100 ", netip.Addr{}, false},
		{"trailing text", "10.0.0.1x", netip.Addr{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			got, err := ParseAddress(tt.input)
			if !tt.ok {
				req.ErrorIs(err, ErrInvalidAddress)
				return
			}
			req.NoError(err)
			req.Equal(tt.want, got)
		})
	}
}

func TestParseAddress_SaysWhichRuleFailed(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "empty"},
		{"1921.168.100.100", "longer than 15 characters"},
		{"10.0.1", "not an IPv4 address"},
		{"::ffff:10.0.0.1", "not a dotted quad"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			_, err := ParseAddress(tt.input)
			require.ErrorIs(t, err, ErrInvalidAddress)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParsePort(t *testing.T) {
	tests := []struct {
		input string
		want  uint16
		ok    bool
	}{
		{"0", 0, true},
		{"80", 80, true},
		{"9999", 9999, true},
		{"65535", 65535, true},
		{"65536", 0, false},
		{"-1", 0, false},
		{"+80", 0, false},
		{" 80", 0, false},
		{"80a", 0, false},
		{"0x50", 0, false},
		{"", 0, false},
		{"99999999999999999999", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			req := require.New(t)
			got, err := ParsePort(tt.input)
			if !tt.ok {
				req.ErrorIs(err, ErrInvalidPort)
				return
			}
			req.NoError(err)
			req.Equal(tt.want, got)
		})
	}
}
