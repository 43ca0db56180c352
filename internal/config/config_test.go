package config

import (
	"log/slog"
	"testing"

	env "github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func TestFromEnvSet_Defaults(t *testing.T) {
	req := require.New(t)

	cfg, err := FromEnvSet(env.EnvSet{})
	req.NoError(err)
	req.Equal(BroadcastLimited, cfg.Mode())
	req.False(cfg.Debug)
	req.False(cfg.RetryResolve)
	req.Equal(slog.LevelWarn, cfg.Level())
}

func TestFromEnvSet_DebugIsPresenceOnly(t *testing.T) {
	req := require.New(t)

	cfg, err := FromEnvSet(env.EnvSet{DebugEnv: ""})
	req.NoError(err)
	req.True(cfg.Debug)
	req.Equal(slog.LevelDebug, cfg.Level())
}

func TestFromEnvSet_Overrides(t *testing.T) {
	req := require.New(t)

	cfg, err := FromEnvSet(env.EnvSet{
		"IPV4CHAT_LOG_LEVEL":     "info",
		"IPV4CHAT_BROADCAST":     "subnet",
		"IPV4CHAT_RETRY_RESOLVE": "true",
		"NO_COLOR":               "1",
	})
	req.NoError(err)
	req.Equal(BroadcastSubnet, cfg.Mode())
	req.True(cfg.RetryResolve)
	req.True(cfg.NoColor)
	req.Equal(slog.LevelInfo, cfg.Level())
}

func TestFromEnvSet_RejectsUnknownBroadcastMode(t *testing.T) {
	req := require.New(t)

	_, err := FromEnvSet(env.EnvSet{"IPV4CHAT_BROADCAST": "multicast"})
	req.Error(err)
	req.Contains(err.Error(), "unknown broadcast mode")
}
