package config

import (
	"fmt"
	"log/slog"
	"os"

	env "github.com/Netflix/go-env"

	"ipv4chat/internal/logger"
)

// DebugEnv turns on diagnostic tracing when present, whatever its value.
const DebugEnv = "TASKDEBUG"

// BroadcastMode selects the destination of outgoing chat datagrams.
type BroadcastMode string

const (
	// BroadcastLimited sends to 255.255.255.255. Routers never forward it.
	BroadcastLimited BroadcastMode = "limited"
	// BroadcastSubnet sends to the directed broadcast address of the
	// bound interface, e.g. 192.168.1.255 for 192.168.1.0/24.
	BroadcastSubnet BroadcastMode = "subnet"
)

// Config is resolved once at startup and passed down explicitly; no
// component reads the environment on its own.
type Config struct {
	LogLevel     string `env:"IPV4CHAT_LOG_LEVEL,default=warn"`
	Broadcast    string `env:"IPV4CHAT_BROADCAST,default=limited"`
	RetryResolve bool   `env:"IPV4CHAT_RETRY_RESOLVE,default=false"`

	// Debug mirrors the presence of TASKDEBUG.
	Debug bool
	// NoColor mirrors the presence of NO_COLOR.
	NoColor bool
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "warn",
		Broadcast: string(BroadcastLimited),
	}
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	es, err := env.EnvironToEnvSet(os.Environ())
	if err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return FromEnvSet(es)
}

// FromEnvSet reads the configuration from an explicit variable set.
func FromEnvSet(es env.EnvSet) (*Config, error) {
	cfg := DefaultConfig()
	if err := env.Unmarshal(es, cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	_, cfg.Debug = es[DebugEnv]
	_, cfg.NoColor = es["NO_COLOR"]

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that have a closed set of options.
func (c *Config) Validate() error {
	switch c.Mode() {
	case BroadcastLimited, BroadcastSubnet:
		return nil
	default:
		return fmt.Errorf("config error: unknown broadcast mode %q (want %q or %q)",
			c.Broadcast, BroadcastLimited, BroadcastSubnet)
	}
}

// Mode returns the configured broadcast mode.
func (c *Config) Mode() BroadcastMode {
	return BroadcastMode(c.Broadcast)
}

// Level is the effective log level: debug whenever TASKDEBUG is set.
func (c *Config) Level() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}
	return logger.ParseLevel(c.LogLevel)
}
