package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/chime/internal/config"
	"github.com/example/chime/internal/logger"
	"github.com/example/chime/internal/service/daemon"
	"github.com/example/chime/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// storagePath where the alarm store is persisted.
	storagePath string
	// logLevel sets the minimum level of emitted log messages.
	logLevel string

	// rootCmd represents the base command for running the engine daemon.
	rootCmd = &cobra.Command{
		Use:   "chimed [listen-address]",
		Short: "Run the alarm scheduling daemon.",
		Long: `Starts the alarm scheduling daemon that persists alarms, books their
triggers and serves the JSON API used by chimectl.

The daemon listens on the specified address or uses settings from the
configuration file. Only the port from the configured server address is
used for listening (e.g., :8080). The listen address can be provided as
an argument to override the config (e.g., :9090, 0.0.0.0:8080).
Alarms and trigger bookkeeping survive restarts through the storage file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			return daemon.Run(ctx, &daemon.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				StoragePath:   storagePath,
			})
		},
	}
)

// Execute runs the chimed CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().
		StringVarP(&storagePath, "storage", "s", "", "path to the alarm store (defaults to the configured location)")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "info", "minimum log level (debug, info, warn, error)")
}
