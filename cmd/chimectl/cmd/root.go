package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/chime/internal/api/rest"
	"github.com/example/chime/internal/config"
	"github.com/example/chime/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// serverAddress overrides the daemon address from the configuration.
	serverAddress string
	// requestTimeout bounds each API call.
	requestTimeout time.Duration

	// rootCmd represents the base command for controlling the daemon.
	rootCmd = &cobra.Command{
		Use:   "chimectl",
		Short: "Control a running alarm scheduling daemon.",
		Long: `Manages alarms and the countdown timer on a running chimed daemon.

The daemon address is taken from the --server flag or from the
configuration file. All commands talk to the daemon's JSON API.`,
	}
)

// Execute runs the chimectl CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newClient resolves the daemon address and builds an API client.
func newClient() (*rest.Client, error) {
	address := serverAddress
	if address == "" {
		settings, err := config.Load(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("no server address given: %w", err)
		}

		address = settings.ServerAddress
	}

	return rest.NewClient(address, rest.WithRequestTimeout(requestTimeout))
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().
		StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().
		StringVarP(&serverAddress, "server", "s", "", "daemon address (defaults to the configured one)")
	rootCmd.PersistentFlags().
		DurationVarP(&requestTimeout, "timeout", "t", rest.DefaultRequestTimeout, "per-request timeout")
}
