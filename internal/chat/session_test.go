package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	req := require.New(t)

	s, err := NewSession("alice")
	req.NoError(err)
	req.Equal("alice", s.Nickname())

	_, err = NewSession(strings.Repeat("n", MaxNickname))
	req.NoError(err)

	for _, bad := range []string{"", strings.Repeat("n", MaxNickname+1), "al\nice"} {
		_, err = NewSession(bad)
		req.ErrorIs(err, ErrInvalidNickname, "nickname %q", bad)
	}
}

func TestSession_Envelope(t *testing.T) {
	req := require.New(t)
	s, err := NewSession("alice")
	req.NoError(err)

	payload, err := s.Envelope("hi")
	req.NoError(err)
	req.Equal("alice: hi\n", string(payload))

	payload, err = s.Envelope(strings.Repeat("m", MaxMessage))
	req.NoError(err)
	req.Len(payload, len("alice: ")+MaxMessage+1)

	_, err = s.Envelope(strings.Repeat("m", MaxMessage+1))
	req.ErrorIs(err, ErrInvalidMessage)

	_, err = s.Envelope("")
	req.ErrorIs(err, ErrInvalidMessage)

	_, err = Session{}.Envelope("hi")
	req.ErrorIs(err, ErrInvalidNickname)
}

func TestMaxDatagram_FitsLargestEnvelope(t *testing.T) {
	s, err := NewSession(strings.Repeat("n", MaxNickname))
	require.NoError(t, err)

	payload, err := s.Envelope(strings.Repeat("m", MaxMessage))
	require.NoError(t, err)
	require.Len(t, payload, MaxDatagram)
}
