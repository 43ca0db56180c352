package logger

import (
	"bytes"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	req := require.New(t)

	req.Equal(slog.LevelDebug, ParseLevel("debug"))
	req.Equal(slog.LevelInfo, ParseLevel(" INFO "))
	req.Equal(slog.LevelWarn, ParseLevel("warning"))
	req.Equal(slog.LevelError, ParseLevel("Error"))
	req.Equal(slog.LevelWarn, ParseLevel("verbose"))
	req.Equal(slog.LevelWarn, ParseLevel(""))
}

func TestSetLevel_FiltersRecords(t *testing.T) {
	req := require.New(t)
	prev := Level()
	defer SetLevel(prev)

	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	SetLevel(slog.LevelWarn)
	L().Debug("hidden", "k", 1)
	req.Empty(buf.String())

	SetLevel(slog.LevelDebug)
	L().Debug("shown", "k", 1)
	req.Contains(buf.String(), "msg=shown")
	req.Contains(buf.String(), "k=1")
}
