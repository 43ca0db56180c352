package main

import (
	"bytes"
	"context"
	"net/netip"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ipv4chat/internal/addr"
	"ipv4chat/internal/config"
)

func TestParseArgs(t *testing.T) {
	req := require.New(t)

	ipFlag, portFlag = "192.168.1.10", "9999"
	req.NoError(parseArgs(rootCmd, nil))
	req.Equal(netip.MustParseAddr("192.168.1.10"), listenIP)
	req.Equal(uint16(9999), port)

	ipFlag, portFlag = "192.168.1.300", "9999"
	req.ErrorIs(parseArgs(rootCmd, nil), addr.ErrInvalidAddress)

	ipFlag, portFlag = "192.168.1.10", "65536"
	req.ErrorIs(parseArgs(rootCmd, nil), addr.ErrInvalidPort)
}

func TestRootCmd_RejectsBadArgumentsBeforeStarting(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"bad port", []string{"--ip", "10.0.0.1", "--port", "70000"}, addr.ErrInvalidPort},
		{"bad ip", []string{"--ip", "10.0.0", "--port", "9999"}, addr.ErrInvalidAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			rootCmd.SetOut(&out)
			rootCmd.SetErr(&out)
			rootCmd.SetArgs(tt.args)
			defer rootCmd.SetArgs(nil)

			err := rootCmd.Execute()
			require.ErrorIs(t, err, tt.want)
			require.Contains(t, out.String(), "Usage:")
		})
	}
}

func TestRootCmd_VersionShowsAuthor(t *testing.T) {
	req := require.New(t)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--version"})
	defer func() {
		rootCmd.SetArgs(nil)
		_ = rootCmd.Flags().Set("version", "false")
	}()

	req.NoError(rootCmd.Execute())
	req.Equal("Program IPv4-Chat. Version: 1.0\n"+
		"Author: Дронов Вадим Юрьевич\n"+
		"Contact e-mail: vjdronov@yandex.ru\n", out.String())
}

func TestRunChat_InterruptedAtStartupIsClean(t *testing.T) {
	in, typed, err := os.Pipe()
	require.NoError(t, err)
	defer typed.Close()
	defer in.Close()

	stdin := os.Stdin
	os.Stdin = in
	defer func() { os.Stdin = stdin }()

	// no interface owns this address, so runChat sits at the address prompt
	cfg = config.DefaultConfig()
	cfg.RetryResolve = true
	cfg.NoColor = true
	listenIP, port = netip.MustParseAddr("192.0.2.1"), 0
	defer func() { cfg = nil }()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runChat(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		require.Fail(t, "runChat ignored the cancelled context")
	}
}
