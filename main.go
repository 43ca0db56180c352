package main

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"os"
	"os/signal"
	"syscall"

	"ipv4chat/internal/addr"
	"ipv4chat/internal/app"
	"ipv4chat/internal/config"
	"ipv4chat/internal/logger"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
)

var (
	programName = "IPv4-Chat"
	version     = "1.0"
	author      = "Дронов Вадим Юрьевич"
	email       = "vjdronov@yandex.ru"

	rootCmd = &cobra.Command{
		Use:   "ipv4chat --ip <machine_ip> --port <listen_port>",
		Short: "Broadcast chat for every host on the local subnet.",
		Long: "Binds to the interface that owns --ip, broadcasts each typed line to every\n" +
			"peer listening on --port and prints whatever the peers broadcast.",
		Version:           version,
		Args:              cobra.NoArgs,
		PersistentPreRunE: loadConfig,
		PreRunE:           parseArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// past this point failures are not usage mistakes
			cmd.SilenceUsage = true
			return runChat(cmd.Context())
		},
		SilenceErrors: true,
	}

	// CLI flags
	ipFlag           string
	portFlag         string
	logLevelFlag     string
	broadcastFlag    string
	retryResolveFlag bool

	cfg      *config.Config
	listenIP netip.Addr
	port     uint16
)

func init() {
	rootCmd.Flags().StringVar(&ipFlag, "ip", "", "(Mandatory) This client's address.")
	rootCmd.Flags().StringVar(&portFlag, "port", "", "(Mandatory) Port to listen to.")
	_ = rootCmd.MarkFlagRequired("ip")
	_ = rootCmd.MarkFlagRequired("port")

	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Set log level (debug, info, warn, error). Overrides $IPV4CHAT_LOG_LEVEL")
	rootCmd.PersistentFlags().StringVar(&broadcastFlag, "broadcast", "", "Broadcast target: limited (255.255.255.255) or subnet. Overrides $IPV4CHAT_BROADCAST")
	rootCmd.PersistentFlags().BoolVar(&retryResolveFlag, "retry-resolve", false, "Ask for another address when no interface owns --ip")

	rootCmd.SetVersionTemplate(fmt.Sprintf("Program %s. Version: {{.Version}}\nAuthor: %s\nContact e-mail: %s\n",
		programName, author, email))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		stop()
		os.Exit(1)
	}
}

// loadConfig resolves the environment once and lets flags override it.
func loadConfig(cmd *cobra.Command, _ []string) error {
	var err error
	if cfg, err = config.Load(); err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevelFlag
	}
	if cmd.Flags().Changed("broadcast") {
		cfg.Broadcast = broadcastFlag
	}
	if cmd.Flags().Changed("retry-resolve") {
		cfg.RetryResolve = retryResolveFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.SetLevel(cfg.Level())
	if cfg.NoColor {
		color.Disable()
	}
	logger.L().Debug("configuration loaded", "log_level", cfg.Level(), "broadcast", cfg.Mode(), "retry_resolve", cfg.RetryResolve)
	return nil
}

func parseArgs(_ *cobra.Command, _ []string) error {
	logger.L().Debug("got options", "ip", ipFlag, "port", portFlag)

	var err error
	if listenIP, err = addr.ParseAddress(ipFlag); err != nil {
		return fmt.Errorf("error getting IP from string %s: %w", ipFlag, err)
	}
	if port, err = addr.ParsePort(portFlag); err != nil {
		return fmt.Errorf("error getting port from string %s: %w", portFlag, err)
	}
	return nil
}

func runChat(ctx context.Context) error {
	c, err := app.NewChat(ctx, app.Options{
		Address:  listenIP,
		Port:     port,
		Config:   cfg,
		In:       os.Stdin,
		Out:      os.Stdout,
		Colorize: !cfg.NoColor && color.SupportColor(),
	})
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			// interrupted at a startup prompt
			return nil
		}
		return err
	}
	defer c.Close()

	logger.L().Info("chat started", "iface", c.Interface(), "listen", c.LocalAddr(), "target", c.Target())
	return c.Run(ctx)
}
