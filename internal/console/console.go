// Package console reads bounded lines from the terminal and owns the
// few cursor tricks the chat uses.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrEndOfInput is returned once the input is exhausted with nothing left
// to hand back.
var ErrEndOfInput = errors.New("end of input")

const (
	eraseLine      = "\033[1F\033[2K\r"
	eraseLineDebug = "\033[1F\033[1F\033[2K\r\n"
)

// Reader reads lines of at most a given number of bytes. Retry prompts go
// to out.
type Reader struct {
	in  *bufio.Reader
	out io.Writer
}

func NewReader(in io.Reader, out io.Writer) *Reader {
	return &Reader{in: bufio.NewReader(in), out: out}
}

// ReadLine returns the next non-empty line of at most limit bytes, without
// its terminator. Empty and oversize lines are rejected with a prompt and
// read again. A line cut short by end of input is accepted as is.
func (r *Reader) ReadLine(limit int) (string, error) {
	if limit <= 0 {
		return "", fmt.Errorf("invalid line limit %d", limit)
	}
	for {
		line, ok, err := r.readAttempt(limit)
		if err != nil {
			return "", err
		}
		if ok {
			return line, nil
		}
	}
}

// readAttempt reads one physical line. ok is false when the line was
// rejected and a retry prompt has been written.
func (r *Reader) readAttempt(limit int) (string, bool, error) {
	buf := make([]byte, 0, limit)
	for {
		b, err := r.in.ReadByte()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return "", false, fmt.Errorf("reading input: %w", err)
			}
			if len(buf) == 0 {
				return "", false, ErrEndOfInput
			}
			return string(buf), true, nil
		}

		if b == '\r' && r.peekNewline() {
			b = '\n'
		}
		if b == '\n' {
			if len(buf) == 0 {
				fmt.Fprintln(r.out, "ERROR: Please enter a string with at least 1 character")
				return "", false, nil
			}
			return string(buf), true, nil
		}

		if len(buf) == limit {
			if err := r.discardLine(); err != nil {
				return "", false, err
			}
			fmt.Fprintf(r.out, "ERROR: String length is over the limit (%d). Please try again.\n", limit)
			return "", false, nil
		}
		buf = append(buf, b)
	}
}

// peekNewline consumes a '\n' that directly follows, if any.
func (r *Reader) peekNewline() bool {
	next, err := r.in.Peek(1)
	if err != nil || next[0] != '\n' {
		return false
	}
	_, _ = r.in.ReadByte()
	return true
}

func (r *Reader) discardLine() error {
	for {
		b, err := r.in.ReadByte()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		if b == '\n' {
			return nil
		}
	}
}

// Prompt writes a prompt without a trailing newline.
func (r *Reader) Prompt(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// EraseLastLine moves the cursor over the line the user just typed and
// clears it. The debug variant leaves an empty row for the trace output.
func EraseLastLine(w io.Writer, debug bool) {
	if debug {
		io.WriteString(w, eraseLineDebug)
		return
	}
	io.WriteString(w, eraseLine)
}

// SyncWriter serialises writes coming from the receive and send loops.
type SyncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewSyncWriter(w io.Writer) *SyncWriter {
	return &SyncWriter{w: w}
}

func (s *SyncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
