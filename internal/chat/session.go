package chat

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MaxNickname is the nickname budget in bytes.
	MaxNickname = 50
	// MaxMessage is the budget of one chat line in bytes.
	MaxMessage = 1000
	// MaxDatagram is the largest payload a peer of ours ever sends.
	MaxDatagram = MaxNickname + len(separator) + MaxMessage + len(terminator)

	separator  = ": "
	terminator = "\n"
)

var (
	ErrInvalidNickname = errors.New("invalid nickname")
	ErrInvalidMessage  = errors.New("invalid message")
)

// Session is the identity this process chats under. It never changes
// once created.
type Session struct {
	nickname string
}

// NewSession validates the nickname: 1 to MaxNickname bytes, single line.
func NewSession(nickname string) (Session, error) {
	if err := checkLine(nickname, MaxNickname); err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidNickname, err)
	}
	return Session{nickname: nickname}, nil
}

func (s Session) Nickname() string {
	return s.nickname
}

// Envelope builds the wire payload "<nickname>: <text>\n".
func (s Session) Envelope(text string) ([]byte, error) {
	if s.nickname == "" {
		return nil, fmt.Errorf("%w: session has no nickname", ErrInvalidNickname)
	}
	if err := checkLine(text, MaxMessage); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	payload := make([]byte, 0, len(s.nickname)+len(separator)+len(text)+len(terminator))
	payload = append(payload, s.nickname...)
	payload = append(payload, separator...)
	payload = append(payload, text...)
	payload = append(payload, terminator...)
	return payload, nil
}

func checkLine(s string, limit int) error {
	switch {
	case s == "":
		return errors.New("empty")
	case len(s) > limit:
		return fmt.Errorf("%d bytes, limit is %d", len(s), limit)
	case strings.Contains(s, terminator):
		return errors.New("contains a line break")
	}
	return nil
}
